package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	userdomain "github.com/farmart-ke/farmart-api/internal/domains/users/domain"
	userports "github.com/farmart-ke/farmart-api/internal/domains/users/ports"
	"github.com/farmart-ke/farmart-api/internal/shared/access"
)

// UserAPI serves registration, login, and profile endpoints.
type UserAPI struct {
	service userports.Service
}

func NewUserAPI(service userports.Service) UserAPI {
	return UserAPI{service: service}
}

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
	Location string `json:"location"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type userResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Staff    bool   `json:"staff"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
}

func toUserResponse(user *userdomain.User) userResponse {
	return userResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     string(user.Role),
		Staff:    user.Staff,
		Phone:    user.Phone,
		Location: user.Location,
	}
}

// Post /v1/users/register
func (api *UserAPI) Register(c *gin.Context) {
	var payload registerRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	user, err := api.service.Register(c.Request.Context(), userports.RegisterInput{
		Username: payload.Username,
		Email:    payload.Email,
		Password: payload.Password,
		Role:     access.Role(payload.Role),
		Phone:    payload.Phone,
		Location: payload.Location,
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toUserResponse(user))
}

// Post /v1/users/login
func (api *UserAPI) Login(c *gin.Context) {
	var payload loginRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	token, err := api.service.Login(c.Request.Context(), payload.Username, payload.Password)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// Post /v1/users/logout
func (api *UserAPI) Logout(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	if err := api.service.Logout(c.Request.Context(), actor.ID); err != nil {
		respondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Get /v1/users/me
func (api *UserAPI) Profile(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	user, err := api.service.GetByID(c.Request.Context(), actor.ID)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}
