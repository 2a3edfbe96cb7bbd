package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/qs-lzh/movie-booking/internal/auth"
	"github.com/qs-lzh/movie-booking/internal/model"
	"github.com/qs-lzh/movie-booking/internal/repository"
	"github.com/qs-lzh/movie-booking/internal/service"
)

type UserService interface {
	Register(ctx context.Context, username, password string) (*model.User, error)
	Login(ctx context.Context, username, password string) (*auth.Identity, error)
	IsAdmin(ctx context.Context, username string) (userID uint, isAdmin bool, err error)
}

type userService struct {
	db     *gorm.DB
	repo   repository.UserRepo
	logger *zap.Logger
}

var _ UserService = (*userService)(nil)
var _ auth.AdminLookup = (*userService)(nil)

func NewUserService(db *gorm.DB, userRepo repository.UserRepo, logger *zap.Logger) *userService {
	return &userService{
		db:     db,
		repo:   userRepo,
		logger: logger,
	}
}

type registerInput struct {
	Username string `validate:"required,max=64"`
	Password string `validate:"required,max=72"` // bcrypt input limit
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// compared against when the username does not exist
var dummyHash = sync.OnceValue(func() []byte {
	hash, _ := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)
	return hash
})

func (s *userService) Register(ctx context.Context, username, password string) (*model.User, error) {
	// usernames are stored exactly as typed, login compares them the same way
	in := registerInput{Username: username, Password: password}
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Username) == "" {
		return nil, fmt.Errorf("%w: username is required", service.ErrValidation)
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, fmt.Errorf("%w: password must be at most 72 bytes", service.ErrValidation)
		}
		return nil, err
	}
	user := &model.User{Name: in.Username, PasswordHash: hash}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.GetByName(ctx, in.Username); err == nil {
			return service.ErrDuplicate
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return repo.Create(ctx, user)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, service.ErrDuplicate
		}
		return nil, err
	}

	s.logger.Info("user registered", zap.Uint("user_id", user.ID), zap.String("username", user.Name))
	return user, nil
}

func (s *userService) Login(ctx context.Context, username, password string) (*auth.Identity, error) {
	user, err := s.repo.GetByName(ctx, username)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(password))
		s.logger.Debug("login failed", zap.String("username", username), zap.String("reason", "unknown user"))
		return nil, service.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Debug("login failed", zap.String("username", username), zap.String("reason", "wrong password"))
		return nil, service.ErrInvalidCredentials
	}

	return &auth.Identity{
		UserID:   user.ID,
		Username: user.Name,
		IsAdmin:  user.IsAdmin,
	}, nil
}

// IsAdmin reads the admin flag from the users table, never from the session.
func (s *userService) IsAdmin(ctx context.Context, username string) (uint, bool, error) {
	user, err := s.repo.GetByName(ctx, username)
	if err != nil {
		return 0, false, err
	}
	return user.ID, user.IsAdmin, nil
}
