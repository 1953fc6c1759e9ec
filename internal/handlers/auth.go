package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"qrdine-system/internal/services/auth"
)

type AuthHandler struct {
	auth *auth.Service
}

func NewAuthHandler(svc *auth.Service) *AuthHandler {
	return &AuthHandler{auth: svc}
}

type RegisterRequest struct {
	Name     string  `json:"name" binding:"required"`
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,min=8"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	Name              *string `json:"name"`
	Phone             *string `json:"phone"`
	Address           *string `json:"address"`
	LogoURL           *string `json:"logo_url"`
	ThemeColor        *string `json:"theme_color"`
	IsAcceptingOrders *bool   `json:"is_accepting_orders"`
	ServiceHours      *string `json:"service_hours"`
	OfflineNotice     *string `json:"offline_notice"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	result, err := h.auth.Register(c.Request.Context(), auth.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Address:  req.Address,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse("Restaurant registered successfully", map[string]interface{}{
		"token":      result.Token,
		"expires_at": result.ExpiresAt,
		"restaurant": result.Restaurant,
	}))
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Login successful", map[string]interface{}{
		"token":      result.Token,
		"expires_at": result.ExpiresAt,
		"restaurant": result.Restaurant,
	}))
}

func (h *AuthHandler) Logout(c *gin.Context) {
	token := ""
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) == 2 {
		token = parts[1]
	}

	if err := h.auth.Logout(c.Request.Context(), token); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse("Logged out successfully", nil))
}

func (h *AuthHandler) Profile(c *gin.Context) {
	tc, ok := requireTenant(c)
	if !ok {
		return
	}

	restaurant, err := h.auth.Profile(c.Request.Context(), tc)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse("Profile retrieved successfully", restaurant))
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	tc, ok := requireTenant(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	restaurant, err := h.auth.UpdateProfile(c.Request.Context(), tc, auth.ProfileUpdate{
		Name:              req.Name,
		Phone:             req.Phone,
		Address:           req.Address,
		LogoURL:           req.LogoURL,
		ThemeColor:        req.ThemeColor,
		IsAcceptingOrders: req.IsAcceptingOrders,
		ServiceHours:      req.ServiceHours,
		OfflineNotice:     req.OfflineNotice,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse("Profile updated successfully", restaurant))
}
