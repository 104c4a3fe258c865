package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/registry/internal/app/models/dto"
	"github.com/yigit/registry/internal/app/services"
	"github.com/yigit/registry/internal/middleware"
)

// AdminController handles admin-related operations. Admins are addressed by user ID.
type AdminController struct {
	adminService *services.AdminService
}

// NewAdminController creates a new AdminController
func NewAdminController(adminService *services.AdminService) *AdminController {
	return &AdminController{adminService: adminService}
}

// CreateAdmin handles admin creation
// @Summary Create a new admin
// @Description Registers an admin; isAdmin defaults to true
// @Tags admins
// @Accept json
// @Produce json
// @Param request body dto.CreateAdminRequest true "Admin information"
// @Success 201 {object} dto.APIResponse{data=models.Admin} "Admin created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 409 {object} dto.ErrorResponse "Username already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admins [post]
func (c *AdminController) CreateAdmin(ctx *gin.Context) {
	var req dto.CreateAdminRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	isAdmin := true
	if req.IsAdmin != nil {
		isAdmin = *req.IsAdmin
	}
	admin, err := c.adminService.Create(ctx, services.NewAdmin{NewUser: newUser(req.CreateUserRequest), IsAdmin: isAdmin})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, admin, "Admin created successfully")
}

// GetAdmins lists admins
// @Summary List admins
// @Description Lists all admins, or the admin with a username
// @Tags admins
// @Produce json
// @Param username query string false "Look up by username"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse{items=[]models.Admin}} "Admins retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Admin not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admins [get]
func (c *AdminController) GetAdmins(ctx *gin.Context) {
	if username := ctx.Query("username"); username != "" {
		admin, err := c.adminService.GetByUsername(ctx, username)
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		respond(ctx, http.StatusOK, admin, "Admin retrieved successfully")
		return
	}

	admins, err := c.adminService.GetAll(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondPage(ctx, http.StatusOK, admins, "Admins retrieved successfully")
}

// GetAdminByID retrieves an admin
// @Summary Get admin by user ID
// @Tags admins
// @Produce json
// @Param id path string true "User ID" example(USER-0000001)
// @Param view query string false "Use summary for the projection map" Enums(summary)
// @Success 200 {object} dto.APIResponse{data=models.Admin} "Admin retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid user ID"
// @Failure 404 {object} dto.ErrorResponse "Admin not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admins/{id} [get]
func (c *AdminController) GetAdminByID(ctx *gin.Context) {
	id := ctx.Param("id")
	if ctx.Query("view") == viewSummary {
		summary, err := c.adminService.Summary(ctx, id)
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		respond(ctx, http.StatusOK, summary, "Admin retrieved successfully")
		return
	}

	admin, err := c.adminService.Get(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, admin, "Admin retrieved successfully")
}

// UpdateAdmin replaces the profile of an admin
// @Summary Update an admin
// @Tags admins
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body dto.UpdateAdminRequest true "Profile"
// @Success 200 {object} dto.APIResponse{data=models.Admin} "Admin updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Admin not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admins/{id} [put]
func (c *AdminController) UpdateAdmin(ctx *gin.Context) {
	var req dto.UpdateAdminRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	admin, err := c.adminService.Update(ctx, ctx.Param("id"), req.ToProfile(), req.IsAdmin)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, admin, "Admin updated successfully")
}

// DeleteAdmin deletes an admin
// @Summary Delete an admin
// @Tags admins
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} dto.APIResponse{data=dto.DeletedResponse} "Admin deleted successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid user ID"
// @Failure 404 {object} dto.ErrorResponse "Admin not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admins/{id} [delete]
func (c *AdminController) DeleteAdmin(ctx *gin.Context) {
	if err := c.adminService.Delete(ctx, ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, dto.DeletedResponse{Deleted: true}, "Admin deleted successfully")
}
