package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ecomarket/user-service/internal/container"
	handlers "github.com/ecomarket/user-service/internal/interface/http"
	"github.com/ecomarket/user-service/internal/interface/middleware"
)

// UserModule wires the user directory HTTP surface into routes.
// GET    /api/users          list
// GET    /api/users/:id      fetch
// POST   /api/users/register create (201)
// PUT    /api/users/:id      replace identity fields
// DELETE /api/users/:id      remove (204, unconditional)
// POST   /api/users/login    credential check

type UserModule struct {
	Handler *handlers.UserHandler
}

func NewUserModule(h *handlers.UserHandler) *UserModule {
	return &UserModule{Handler: h}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()

	// Credential and registration endpoints get tighter per-IP limits
	registerLimiter := middleware.RateLimit(rdb, 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(rdb, 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	readLimiter := middleware.RateLimit(rdb, 300, time.Minute, middleware.KeyByIP(), nil)

	users := rg.Group("/users")
	users.Use(readLimiter)
	{
		users.GET("", m.Handler.List)
		users.GET("/:id", m.Handler.Get)
		users.POST("/register", registerLimiter, m.Handler.Register)
		users.PUT("/:id", m.Handler.Update)
		users.DELETE("/:id", m.Handler.Delete)
		users.POST("/login", loginLimiter, m.Handler.Login)
	}
}
