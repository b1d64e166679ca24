package router

import (
	userapp "github.com/ecomarket/user-service/internal/application"
	"github.com/ecomarket/user-service/internal/container"
	repouser "github.com/ecomarket/user-service/internal/domain/repository"
	pginfra "github.com/ecomarket/user-service/internal/infrastructure/postgres"
	handlers "github.com/ecomarket/user-service/internal/interface/http"
	"github.com/ecomarket/user-service/internal/router/modules"
	"github.com/ecomarket/user-service/pkg/response"
)

type UserModuleDeps struct {
	Repo    repouser.UserRepository
	Service *userapp.Service
	Handler *handlers.UserHandler
}

func buildUserDeps() UserModuleDeps {
	cfg := container.GetConfig()

	repo := pginfra.NewUserRepository(container.GetPGPool())

	service := userapp.NewService(
		repo,
		container.GetLogger(),
		container.GetRabbitPub(),
		cfg.MailSendEnabled,
	)

	handler := handlers.NewUserHandler(
		service,
		container.GetLogger(),
		response.NewBuilder(cfg.PublicBaseURL, cfg.HypermediaEnabled),
	)

	return UserModuleDeps{
		Repo:    repo,
		Service: service,
		Handler: handler,
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	userDeps := buildUserDeps()
	r.Add(modules.NewUserModule(userDeps.Handler))
	if container.GetConfig().DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
