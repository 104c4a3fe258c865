// Package controllers translates HTTP requests into exactly one service operation each.
package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/registry/internal/app/models/dto"
	"github.com/yigit/registry/internal/app/services"
	"github.com/yigit/registry/internal/pkg/helpers"
)

const viewSummary = "summary"

func respond(ctx *gin.Context, status int, data interface{}, message string) {
	ctx.JSON(status, dto.NewAPIResponse(data, message))
}

func respondPage[T any](ctx *gin.Context, status int, items []T, message string) {
	page, size := helpers.ParsePaginationParams(ctx)
	respond(ctx, status, helpers.Paginate(items, page, size), message)
}

func newUser(r dto.CreateUserRequest) services.NewUser {
	return services.NewUser{
		Username: r.Username,
		Password: r.Password,
		Profile:  r.ToProfile(),
	}
}

func newStudent(r dto.CreateStudentRequest) services.NewStudent {
	return services.NewStudent{NewUser: newUser(r.CreateUserRequest), DepartmentID: r.DepartmentID}
}
