package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/ecomarket/user-service/internal/domain/entity"
	repo "github.com/ecomarket/user-service/internal/domain/repository"
	"github.com/ecomarket/user-service/pkg/helpers"
	"github.com/ecomarket/user-service/pkg/mailer"
)

// Domain failures. The conflict messages are the exact texts the API
// returns on a duplicate registration, so they double as response bodies.
var (
	ErrUsernameTaken      = errors.New("El nombre de usuario ya existe.")
	ErrEmailTaken         = errors.New("El correo electrónico ya está registrado.")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Service owns the user business rules: uniqueness-enforcing registration,
// partial update, and the credential check. It is stateless; all state
// lives in the repository.
type Service struct {
	Repo        repo.UserRepository
	Logger      *logrus.Logger
	Pub         *helpers.RabbitPublisher
	MailEnabled bool
}

func NewService(r repo.UserRepository, logger *logrus.Logger, pub *helpers.RabbitPublisher, mailEnabled bool) *Service {
	return &Service{Repo: r, Logger: logger, Pub: pub, MailEnabled: mailEnabled}
}

// RegisterInput carries the registration payload. The caller never supplies
// an id; the store assigns one.
type RegisterInput struct {
	Username string
	Password string
	Email    string
	FullName string
}

// UpdateInput carries replacement values for an update. The password is not
// part of it and is left untouched.
type UpdateInput struct {
	Username string
	Email    string
	FullName string
}

// ListUsers returns all users in store iteration order.
func (s *Service) ListUsers(ctx context.Context) ([]*entity.User, error) {
	return s.Repo.GetAll(ctx)
}

// GetUser returns the user for id or ErrUserNotFound.
func (s *Service) GetUser(ctx context.Context, id int64) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// RegisterUser validates uniqueness (username first, then email — first
// failure wins), hashes the password, and persists the candidate. The
// pre-check is advisory: a concurrent registration slipping past it is
// caught by the store's unique constraints and reported the same way.
func (s *Service) RegisterUser(ctx context.Context, in RegisterInput) (*entity.User, error) {
	if _, err := s.Repo.GetByUsername(ctx, in.Username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}
	if _, err := s.Repo.GetByEmail(ctx, in.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{
		Username:     in.Username,
		PasswordHash: hash,
		Email:        in.Email,
		FullName:     in.FullName,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		return nil, mapDuplicateErr(err)
	}

	s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "username": u.Username}).Info("user registered")
	s.publishWelcome(ctx, u)
	return u, nil
}

// UpdateUser replaces username, email, and full name on the target row.
// Uniqueness of the new username/email is re-validated against other rows
// before the write; the source system skipped this check.
func (s *Service) UpdateUser(ctx context.Context, id int64, in UpdateInput) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if other, err := s.Repo.GetByUsername(ctx, in.Username); err == nil {
		if other.ID != id {
			return nil, ErrUsernameTaken
		}
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}
	if other, err := s.Repo.GetByEmail(ctx, in.Email); err == nil {
		if other.ID != id {
			return nil, ErrEmailTaken
		}
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}

	u.Username = in.Username
	u.Email = in.Email
	u.FullName = in.FullName
	if err := s.Repo.Update(ctx, u); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			// Row vanished between read and write; report absence.
			return nil, ErrUserNotFound
		}
		return nil, mapDuplicateErr(err)
	}
	return u, nil
}

// DeleteUser unconditionally removes the row for id. It reports nothing
// about whether a row existed, so repeated deletes are no-ops.
func (s *Service) DeleteUser(ctx context.Context, id int64) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	s.Logger.WithField("user_id", id).Info("user deleted")
	return nil
}

// Authenticate verifies username/password. Unknown user and wrong password
// are indistinguishable to the caller.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*entity.User, error) {
	u, err := s.Repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !helpers.CompareHashAndPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func mapDuplicateErr(err error) error {
	switch {
	case errors.Is(err, repo.ErrDuplicateUsername):
		return ErrUsernameTaken
	case errors.Is(err, repo.ErrDuplicateEmail):
		return ErrEmailTaken
	}
	return err
}

// publishWelcome enqueues a welcome email for a fresh registration. Failures
// are logged and swallowed; registration never depends on the broker.
func (s *Service) publishWelcome(ctx context.Context, u *entity.User) {
	if s.Pub == nil || !s.MailEnabled {
		return
	}
	job := mailer.WelcomeJob(u.Email, u.Username, u.FullName)
	if err := s.Pub.PublishJSON(ctx, job); err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("welcome email enqueue failed")
	}
}
