package handlers

import (
	"net/http"

	"restaurant_service/internal/logger"
	"restaurant_service/internal/services"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService services.UserService
	log         *logger.Logger
}

func NewUserHandler(userService services.UserService, log *logger.Logger) *UserHandler {
	return &UserHandler{userService: userService, log: log}
}

type createUserRequest struct {
	Name        string `json:"name" binding:"required"`
	Login       string `json:"login" binding:"required"`
	Password    string `json:"password" binding:"required"`
	Role        string `json:"role"`
	IsAvailable *bool  `json:"is_available"`
}

type updateUserRequest struct {
	Name        *string `json:"name"`
	Login       *string `json:"login"`
	Password    *string `json:"password"`
	Role        *string `json:"role"`
	IsAvailable *bool   `json:"is_available"`
}

type replaceUserRequest struct {
	Name        string `json:"name" binding:"required"`
	Login       string `json:"login" binding:"required"`
	Password    string `json:"password" binding:"required"`
	Role        string `json:"role" binding:"required"`
	IsAvailable *bool  `json:"is_available" binding:"required"`
}

func (h *UserHandler) GetUsers(c *gin.Context) {
	users, err := h.userService.GetAllUsers(c.Request.Context())
	if err != nil {
		respondError(c, h.log, "users_list", err)
		return
	}
	out := make([]userResponse, len(users))
	for i := range users {
		out[i] = toUserResponse(&users[i])
	}
	c.JSON(http.StatusOK, out)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	user, err := h.userService.GetUserByID(c.Request.Context(), actor(c), id)
	if err != nil {
		respondError(c, h.log, "users_get", err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

func (h *UserHandler) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	user, err := h.userService.CreateUser(c.Request.Context(), services.UserInput{
		Name: req.Name, Login: req.Login, Password: req.Password, Role: req.Role, IsAvailable: req.IsAvailable,
	})
	if err != nil {
		respondError(c, h.log, "users_create", err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	user, err := h.userService.UpdateUser(c.Request.Context(), actor(c), id, services.UserUpdate{
		Name: req.Name, Login: req.Login, Password: req.Password, Role: req.Role, IsAvailable: req.IsAvailable,
	})
	if err != nil {
		respondError(c, h.log, "users_update", err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

func (h *UserHandler) ReplaceUser(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req replaceUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	user, err := h.userService.ReplaceUser(c.Request.Context(), id, services.UserInput{
		Name: req.Name, Login: req.Login, Password: req.Password, Role: req.Role, IsAvailable: req.IsAvailable,
	})
	if err != nil {
		respondError(c, h.log, "users_replace", err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.userService.DeleteUser(c.Request.Context(), id); err != nil {
		respondError(c, h.log, "users_delete", err)
		return
	}
	message(c, "User deleted")
}

// GetPassword is an admin tool; it returns the stored hash, never a clear
// password.
func (h *UserHandler) GetPassword(c *gin.Context) {
	user, err := h.userService.PasswordHash(c.Request.Context(), c.Param("login"))
	if err != nil {
		respondError(c, h.log, "users_password", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"login":        user.Login,
		"password":     user.Password,
		"name":         user.Name,
		"role":         user.Role,
		"is_available": user.IsAvailable,
	})
}
