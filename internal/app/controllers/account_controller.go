package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/registry/internal/app/models/dto"
	"github.com/yigit/registry/internal/app/services"
	"github.com/yigit/registry/internal/middleware"
)

// AccountController handles credentials of every role
type AccountController struct {
	accountService *services.AccountService
}

// NewAccountController creates a new AccountController
func NewAccountController(accountService *services.AccountService) *AccountController {
	return &AccountController{accountService: accountService}
}

// ChangePassword replaces the password of a user
// @Summary Change password
// @Tags accounts
// @Accept json
// @Produce json
// @Param request body dto.ChangePasswordRequest true "Username with old and new password"
// @Success 200 {object} dto.APIResponse "Password changed successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Old password does not match"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /accounts/password [put]
func (c *AccountController) ChangePassword(ctx *gin.Context) {
	var req dto.ChangePasswordRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	if err := c.accountService.ChangePassword(ctx, req.Username, req.OldPassword, req.NewPassword); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, nil, "Password changed successfully")
}

// VerifyCredentials checks a username and password
// @Summary Verify credentials
// @Tags accounts
// @Accept json
// @Produce json
// @Param request body dto.VerifyCredentialsRequest true "Credentials"
// @Success 200 {object} dto.APIResponse{data=dto.AccountResponse} "Credentials verified"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /accounts/verify [post]
func (c *AccountController) VerifyCredentials(ctx *gin.Context) {
	var req dto.VerifyCredentialsRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	account, err := c.accountService.Verify(ctx, req.Username, req.Password)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, dto.NewAccountResponse(account), "Credentials verified")
}
