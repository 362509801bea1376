package controller

import (
	"errors"
	"study_aid_backend/internal/model"
	"study_aid_backend/internal/service"
	"study_aid_backend/internal/util"
	"time"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
	UserService *service.UserService
	CookieTTL   time.Duration
	IsRelease   bool
}

func NewAuthController(authService *service.AuthService, userService *service.UserService, cookieTTL time.Duration, isRelease bool) *AuthController {
	return &AuthController{
		AuthService: authService,
		UserService: userService,
		CookieTTL:   cookieTTL,
		IsRelease:   isRelease,
	}
}

// setTokenCookie issues the auth cookie alongside the JSON token so browser
// clients keep working without an Authorization header.
func (c *AuthController) setTokenCookie(ctx *gin.Context, token string) {
	ctx.SetCookie("token", token, int(c.CookieTTL.Seconds()), "/", "", c.IsRelease, true)
}

func userPayload(user *model.User) gin.H {
	return gin.H{
		"id":           user.ID,
		"name":         user.Name,
		"email":        user.Email,
		"profileImage": user.ProfileImage,
		"createdAt":    user.CreatedAt,
	}
}

// swagger:model RegisterRequest
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// Register godoc
// @Summary Register a new user
// @Description Creates an account and returns a JWT token
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   body body RegisterRequest true "Registration details"
// @Success 201 {object} util.Response{data=object} "Created"
// @Failure 400 {object} util.Response "Invalid request"
// @Failure 409 {object} util.Response "Email already registered"
// @Failure 500 {object} util.Response "Internal server error"
// @Router /api/auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user := &model.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	}

	token, err := c.AuthService.Register(user)
	if err != nil {
		if errors.Is(err, util.ErrEmailRegistered) {
			util.Error(ctx, 409, "Email is already registered")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	c.setTokenCookie(ctx, token)
	util.Created(ctx, gin.H{"user": userPayload(user), "token": token})
}

// swagger:model LoginRequest
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login godoc
// @Summary Log in
// @Description Verifies credentials and returns a JWT token
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   body body LoginRequest true "Login credentials"
// @Success 200 {object} util.Response{data=object} "Success"
// @Failure 400 {object} util.Response "Invalid request"
// @Failure 401 {object} util.Response "Invalid credentials"
// @Router /api/auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, token, err := c.AuthService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, util.ErrInvalidCredentials) {
			util.Unauthorized(ctx, "Invalid email or password")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	c.setTokenCookie(ctx, token)
	util.Success(ctx, gin.H{"user": userPayload(user), "token": token})
}

// Logout godoc
// @Summary Log out
// @Description Clears the auth cookie
// @Tags auth
// @Produce  json
// @Success 200 {object} util.Response "Success"
// @Router /api/auth/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	ctx.SetCookie("token", "", -1, "/", "", c.IsRelease, true)
	util.SuccessMessage(ctx, "Logged out")
}

// GetProfile godoc
// @Summary Get current user profile
// @Tags auth
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=object} "Success"
// @Failure 401 {object} util.Response "Unauthorized"
// @Router /api/auth/me [get]
func (c *AuthController) GetProfile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx, "Not authorized")
		return
	}

	user, err := c.UserService.GetProfile(claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx, "User not found")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	payload := userPayload(user)
	payload["lastLogin"] = user.LastLogin
	util.Success(ctx, payload)
}

// UpdateProfile godoc
// @Summary Update current user profile
// @Tags auth
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.UpdateProfileRequest true "Fields to update"
// @Success 200 {object} util.Response{data=object} "Success"
// @Failure 400 {object} util.Response "Invalid request"
// @Failure 401 {object} util.Response "Unauthorized"
// @Router /api/auth/me [put]
func (c *AuthController) UpdateProfile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx, "Not authorized")
		return
	}

	var req service.UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.UserService.UpdateProfile(claims.UserID, req)
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx, "User not found")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, userPayload(user))
}

// swagger:model ChangePasswordRequest
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
}

// ChangePassword godoc
// @Summary Change password
// @Description Verifies the current password and issues a fresh token
// @Tags auth
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body ChangePasswordRequest true "Password change"
// @Success 200 {object} util.Response{data=object} "Success"
// @Failure 400 {object} util.Response "Invalid request"
// @Failure 401 {object} util.Response "Wrong current password"
// @Router /api/auth/password [put]
func (c *AuthController) ChangePassword(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx, "Not authorized")
		return
	}

	var req ChangePasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	token, err := c.UserService.ChangePassword(claims.UserID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		if errors.Is(err, util.ErrInvalidCredentials) {
			util.Unauthorized(ctx, "Current password is incorrect")
		} else if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx, "User not found")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	c.setTokenCookie(ctx, token)
	util.Success(ctx, gin.H{"token": token})
}
