package users

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/akimenko/airtech/internal/auth"
	"github.com/akimenko/airtech/internal/domain"
	"github.com/akimenko/airtech/internal/repository"
	"github.com/akimenko/airtech/internal/storage"
	"github.com/akimenko/airtech/internal/validation"
	"github.com/akimenko/airtech/pkg/apperrors"
	"github.com/akimenko/airtech/pkg/logger"
	"go.uber.org/zap"
)

type UserUseCase interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, string, error)
	Login(ctx context.Context, username, password string) (*domain.User, string, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	UploadPhoto(ctx context.Context, id int64, photo io.Reader) (*domain.User, error)
	DeletePhoto(ctx context.Context, id int64) (*domain.User, error)
}

type RegisterInput struct {
	Username    string
	Email       string
	Password    string
	FirstName   string
	LastName    string
	DateOfBirth *time.Time
}

type TokenIssuer interface {
	Issue(user *domain.User) (string, error)
}

type UserService struct {
	users        repository.UserRepository
	photos       storage.PhotoStore
	tokens       TokenIssuer
	defaultPhoto string
}

func NewUserService(users repository.UserRepository, photos storage.PhotoStore, tokens TokenIssuer, defaultPhoto string) *UserService {
	return &UserService{
		users:        users,
		photos:       photos,
		tokens:       tokens,
		defaultPhoto: defaultPhoto,
	}
}

func (s *UserService) Register(ctx context.Context, input RegisterInput) (*domain.User, string, error) {
	if input.Username == "" {
		return nil, "", errors.New("username is required")
	}
	if err := validation.CheckPassword(input.Password); err != nil {
		return nil, "", err
	}
	if err := validation.CheckEmail(input.Email); err != nil {
		return nil, "", err
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		DateOfBirth:  input.DateOfBirth,
		Photo:        s.defaultPhoto,
		Active:       true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}
	return user, token, nil
}

func (s *UserService) Login(ctx context.Context, username, password string) (*domain.User, string, error) {
	if username == "" || password == "" {
		return nil, "", errors.New("username and password are required")
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, "", apperrors.ErrInvalidCredentials
		}
		return nil, "", err
	}
	if !auth.CheckPasswordHash(password, user.PasswordHash) {
		return nil, "", apperrors.ErrInvalidCredentials
	}
	if !user.Active {
		return nil, "", apperrors.ErrAccountDisabled
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}
	return user, token, nil
}

func (s *UserService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *UserService) UploadPhoto(ctx context.Context, id int64, photo io.Reader) (*domain.User, error) {
	if s.photos == nil {
		return nil, errors.New("photo storage is not configured")
	}
	if _, err := s.users.GetByID(ctx, id); err != nil {
		return nil, err
	}

	url, err := s.photos.Store(ctx, photo, photoName(id))
	if err != nil {
		return nil, err
	}
	return s.users.UpdatePhoto(ctx, id, url)
}

// DeletePhoto resets the photo to the default placeholder. The blob delete
// is best effort: a dangling blob is cheaper than a user stuck with a dead
// photo URL.
func (s *UserService) DeletePhoto(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.photos != nil && user.Photo != s.defaultPhoto {
		if err := s.photos.Delete(ctx, photoName(id)); err != nil {
			logger.WithComponent("users").Warn("delete photo blob failed", zap.Int64("user_id", id), zap.Error(err))
		}
	}
	return s.users.UpdatePhoto(ctx, id, s.defaultPhoto)
}

func photoName(id int64) string {
	return fmt.Sprintf("user_%d_photo", id)
}

var _ UserUseCase = (*UserService)(nil)
