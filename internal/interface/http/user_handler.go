package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/ecomarket/user-service/internal/application"
	"github.com/ecomarket/user-service/pkg/response"
	"github.com/ecomarket/user-service/pkg/validation"
)

// UserHandler maps the /api/users surface onto the domain service.
// Status mapping: absent -> 404, duplicate -> 400 with the message text,
// failed login -> 401. Not-found and failed logins are expected outcomes
// and never logged as errors.
type UserHandler struct {
	Svc    *userapp.Service
	Logger *logrus.Logger
	Resp   *response.Builder
}

func NewUserHandler(svc *userapp.Service, logger *logrus.Logger, resp *response.Builder) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger, Resp: resp}
}

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,pwd"`
	Email    string `json:"email" binding:"required,email"`
	FullName string `json:"fullName"`
}

// updateRequest carries replacement identity fields. A password key in the
// request body is simply not decoded, so updates can never touch it.
type updateRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	FullName string `json:"fullName"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// List GET /api/users
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.Svc.ListUsers(c.Request.Context())
	if err != nil {
		h.Logger.WithError(err).Error("list users failed")
		c.Status(http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, h.Resp.Users(users))
}

// Get GET /api/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	u, err := h.Svc.GetUser(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, userapp.ErrUserNotFound) {
			c.Status(http.StatusNotFound)
			return
		}
		h.Logger.WithError(err).WithField("user_id", id).Error("get user failed")
		c.Status(http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, h.Resp.User(u))
}

// Register POST /api/users/register
func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid payload", "details": validation.ToDetails(err)})
		return
	}
	u, err := h.Svc.RegisterUser(c.Request.Context(), userapp.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
		FullName: req.FullName,
	})
	if err != nil {
		if errors.Is(err, userapp.ErrUsernameTaken) || errors.Is(err, userapp.ErrEmailTaken) {
			c.String(http.StatusBadRequest, err.Error())
			return
		}
		h.Logger.WithError(err).Error("register user failed")
		c.Status(http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusCreated, h.Resp.User(u))
}

// Update PUT /api/users/:id
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid payload", "details": validation.ToDetails(err)})
		return
	}
	u, err := h.Svc.UpdateUser(c.Request.Context(), id, userapp.UpdateInput{
		Username: req.Username,
		Email:    req.Email,
		FullName: req.FullName,
	})
	if err != nil {
		switch {
		case errors.Is(err, userapp.ErrUserNotFound):
			c.Status(http.StatusNotFound)
		case errors.Is(err, userapp.ErrUsernameTaken), errors.Is(err, userapp.ErrEmailTaken):
			c.String(http.StatusBadRequest, err.Error())
		default:
			h.Logger.WithError(err).WithField("user_id", id).Error("update user failed")
			c.Status(http.StatusInternalServerError)
		}
		return
	}
	c.JSON(http.StatusOK, h.Resp.User(u))
}

// Delete DELETE /api/users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.Svc.DeleteUser(c.Request.Context(), id); err != nil {
		h.Logger.WithError(err).WithField("user_id", id).Error("delete user failed")
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Status(http.StatusNoContent)
}

// Login POST /api/users/login
func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid payload", "details": validation.ToDetails(err)})
		return
	}
	u, err := h.Svc.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, userapp.ErrInvalidCredentials) {
			c.String(http.StatusUnauthorized, "Credenciales inválidas")
			return
		}
		h.Logger.WithError(err).Error("authenticate failed")
		c.Status(http.StatusInternalServerError)
		return
	}
	c.String(http.StatusOK, "Inicio de sesión exitoso para "+u.Username)
}
