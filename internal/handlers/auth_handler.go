package handlers

import (
	"errors"
	"net/http"

	"restaurant_service/internal/logger"
	"restaurant_service/internal/middleware"
	"restaurant_service/internal/models"
	"restaurant_service/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type AuthHandler struct {
	authService services.AuthService
	log         *logger.Logger
}

func NewAuthHandler(authService services.AuthService, log *logger.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, log: log}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Login    string `json:"login" binding:"required,max=50"`
	Password string `json:"password" binding:"required,min=5"`
	Role     string `json:"role"`
}

type loginForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type loginJSON struct {
	Username string `json:"username"`
	Login    string `json:"login"`
	Password string `json:"password" binding:"required"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

// userResponse is the public shape of a user.
type userResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Login       string `json:"login"`
	Role        string `json:"role"`
	IsAvailable bool   `json:"is_available"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.ID, Name: u.Name, Login: u.Login, Role: u.Role, IsAvailable: u.IsAvailable}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	tok, err := h.authService.Register(c.Request.Context(), services.RegisterInput{
		Name: req.Name, Login: req.Login, Password: req.Password, Role: req.Role,
	})
	if err != nil {
		respondError(c, h.log, "auth_register", err)
		return
	}
	c.JSON(http.StatusOK, tok)
}

// Login takes the OAuth2 password form: username and password fields.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginForm
	if err := c.ShouldBindWith(&req, binding.Form); err != nil {
		bindFailed(c, err)
		return
	}
	h.login(c, req.Username, req.Password)
}

func (h *AuthHandler) LoginJSON(c *gin.Context) {
	var req loginJSON
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	login := req.Username
	if login == "" {
		login = req.Login
	}
	if login == "" {
		bindFailed(c, errors.New("username or login is required"))
		return
	}
	h.login(c, login, req.Password)
}

func (h *AuthHandler) login(c *gin.Context, login, password string) {
	tok, err := h.authService.Login(c.Request.Context(), login, password)
	if err != nil {
		if errors.Is(err, services.ErrUnauthorized) {
			c.Header("WWW-Authenticate", "Bearer")
		}
		respondError(c, h.log, "auth_login", err)
		return
	}
	c.JSON(http.StatusOK, tok)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if claims := middleware.GetClaims(c); claims != nil {
		if err := h.authService.Logout(c.Request.Context(), claims); err != nil {
			respondError(c, h.log, "auth_logout", err)
			return
		}
	}
	message(c, "Successfully logged out")
}

func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authService.Me(c.Request.Context(), actor(c).UserID)
	if err != nil {
		respondError(c, h.log, "auth_me", err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	err := h.authService.ChangePassword(c.Request.Context(), actor(c).UserID, req.OldPassword, req.NewPassword)
	if err != nil {
		respondError(c, h.log, "auth_change_password", err)
		return
	}
	message(c, "Password changed")
}

func (h *AuthHandler) RefreshToken(c *gin.Context) {
	tok, err := h.authService.Refresh(c.Request.Context(), actor(c).UserID)
	if err != nil {
		respondError(c, h.log, "auth_refresh", err)
		return
	}
	c.JSON(http.StatusOK, tok)
}
