package users

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"SchoolAPI/internal/app_errors"
	"SchoolAPI/internal/models"
	"SchoolAPI/pkg/logger"
)

type UsersService interface {
	AddRole(ctx context.Context, name string) (*models.Role, error)
	AssignRole(ctx context.Context, userID uuid.UUID, roleName string) error
	RevokeRole(ctx context.Context, userID uuid.UUID, roleName string) error
	RolesByUserID(ctx context.Context, userID uuid.UUID) ([]string, error)
	Users(ctx context.Context, limit, offset int) ([]models.User, error)
}

type UsersHandler struct {
	service UsersService
	log     logger.Log
}

func NewUsersHandler(l logger.Log, s UsersService) *UsersHandler {
	return &UsersHandler{
		service: s,
		log:     l,
	}
}

type userResponse struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (h *UsersHandler) Gets(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 20
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	users, err := h.service.Users(c.Request.Context(), limit, offset)
	if err != nil {
		h.log.ErrorErr("error listing users", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	resp := make([]userResponse, 0, len(users))
	for _, user := range users {
		resp = append(resp, userResponse{
			UserID:   user.ID.String(),
			Username: user.Username,
			Email:    user.Email,
		})
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UsersHandler) GetRolesByUserId(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	roles, err := h.service.RolesByUserID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, app_errors.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.log.ErrorErr("error loading user roles", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"roles": roles})
}

type addRoleRequest struct {
	Name string `json:"name" binding:"required"`
}

type roleResponse struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func (h *UsersHandler) AddRole(c *gin.Context) {
	var input addRoleRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role, err := h.service.AddRole(c.Request.Context(), input.Name)
	if err != nil {
		if errors.Is(err, app_errors.ErrRoleExists) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		h.log.ErrorErr("error creating role", err, "role", input.Name)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, roleResponse{ID: role.ID, Name: role.Name})
}

type editRoleRequest struct {
	UserID   string `json:"userId" binding:"required"`
	RoleName string `json:"roleName" binding:"required"`
}

func (h *UsersHandler) AssignRole(c *gin.Context) {
	var input editRoleRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := uuid.Parse(input.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	err = h.service.AssignRole(c.Request.Context(), userID, input.RoleName)
	if err != nil {
		switch {
		case errors.Is(err, app_errors.ErrUserNotFound), errors.Is(err, app_errors.ErrRoleNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, app_errors.ErrRoleAlreadyAssigned):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			h.log.ErrorErr("error assigning role", err, "user_id", userID, "role", input.RoleName)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Role assigned successfully"})
}

func (h *UsersHandler) RemoveRole(c *gin.Context) {
	var input editRoleRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := uuid.Parse(input.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	err = h.service.RevokeRole(c.Request.Context(), userID, input.RoleName)
	if err != nil {
		switch {
		case errors.Is(err, app_errors.ErrUserNotFound),
			errors.Is(err, app_errors.ErrRoleNotFound),
			errors.Is(err, app_errors.ErrRoleNotAssigned):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			h.log.ErrorErr("error revoking role", err, "user_id", userID, "role", input.RoleName)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Role removed successfully"})
}
