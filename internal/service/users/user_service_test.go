package users

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/akimenko/airtech/internal/auth"
	"github.com/akimenko/airtech/internal/domain"
	"github.com/akimenko/airtech/internal/validation"
	"github.com/akimenko/airtech/pkg/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) UpdatePhoto(ctx context.Context, id int64, photo string) (*domain.User, error) {
	args := m.Called(ctx, id, photo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockPhotoStore struct {
	mock.Mock
}

func (m *MockPhotoStore) Store(ctx context.Context, photo io.Reader, name string) (string, error) {
	args := m.Called(ctx, photo, name)
	return args.String(0), args.Error(1)
}

func (m *MockPhotoStore) Delete(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

type MockTokenIssuer struct {
	mock.Mock
}

func (m *MockTokenIssuer) Issue(user *domain.User) (string, error) {
	args := m.Called(user)
	return args.String(0), args.Error(1)
}

const defaultPhoto = "image/upload/default_image.png"

func validRegisterInput() RegisterInput {
	return RegisterInput{
		Username: "Tester",
		Email:    "apitester@yahoo.com",
		Password: "#Tester12",
	}
}

func TestUserService_Register_Success(t *testing.T) {
	mockRepo := &MockUserRepository{}
	mockTokens := &MockTokenIssuer{}
	service := NewUserService(mockRepo, nil, mockTokens, defaultPhoto)

	ctx := context.Background()
	mockRepo.On("Create", ctx, mock.AnythingOfType("*domain.User")).Return(nil).Once()
	mockTokens.On("Issue", mock.AnythingOfType("*domain.User")).Return("token-123", nil).Once()

	user, token, err := service.Register(ctx, validRegisterInput())

	assert.NoError(t, err)
	assert.Equal(t, "token-123", token)
	assert.Equal(t, "Tester", user.Username)
	assert.Equal(t, defaultPhoto, user.Photo)
	assert.True(t, user.Active)

	mockRepo.AssertExpectations(t)
	mockTokens.AssertExpectations(t)
}

// The stored hash must verify against the password and never equal it.
func TestUserService_Register_HashesPassword(t *testing.T) {
	mockRepo := &MockUserRepository{}
	mockTokens := &MockTokenIssuer{}
	service := NewUserService(mockRepo, nil, mockTokens, defaultPhoto)

	ctx := context.Background()
	var created *domain.User
	mockRepo.On("Create", ctx, mock.AnythingOfType("*domain.User")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*domain.User)
		}).Return(nil).Once()
	mockTokens.On("Issue", mock.Anything).Return("token-123", nil).Once()

	_, _, err := service.Register(ctx, validRegisterInput())

	assert.NoError(t, err)
	assert.NotEqual(t, "#Tester12", created.PasswordHash)
	assert.True(t, auth.CheckPasswordHash("#Tester12", created.PasswordHash))
}

func TestUserService_Register_Validation(t *testing.T) {
	service := NewUserService(&MockUserRepository{}, nil, &MockTokenIssuer{}, defaultPhoto)
	ctx := context.Background()

	testCases := []struct {
		name   string
		mutate func(*RegisterInput)
		want   error
	}{
		{
			name:   "missing username",
			mutate: func(in *RegisterInput) { in.Username = "" },
		},
		{
			name:   "weak password",
			mutate: func(in *RegisterInput) { in.Password = "password" },
			want:   validation.ErrWeakPassword,
		},
		{
			name:   "bad email",
			mutate: func(in *RegisterInput) { in.Email = "not-an-email" },
			want:   validation.ErrInvalidEmail,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			input := validRegisterInput()
			tc.mutate(&input)

			user, token, err := service.Register(ctx, input)

			assert.Error(t, err)
			assert.Nil(t, user)
			assert.Empty(t, token)
			if tc.want != nil {
				assert.ErrorIs(t, err, tc.want)
			}
		})
	}
}

func TestUserService_Register_UsernameTaken(t *testing.T) {
	mockRepo := &MockUserRepository{}
	service := NewUserService(mockRepo, nil, &MockTokenIssuer{}, defaultPhoto)

	ctx := context.Background()
	mockRepo.On("Create", ctx, mock.AnythingOfType("*domain.User")).Return(apperrors.ErrUsernameTaken).Once()

	user, token, err := service.Register(ctx, validRegisterInput())

	assert.ErrorIs(t, err, apperrors.ErrUsernameTaken)
	assert.Nil(t, user)
	assert.Empty(t, token)
}

func TestUserService_Login_Success(t *testing.T) {
	mockRepo := &MockUserRepository{}
	mockTokens := &MockTokenIssuer{}
	service := NewUserService(mockRepo, nil, mockTokens, defaultPhoto)

	hash, err := auth.HashPassword("#Tester12")
	assert.NoError(t, err)

	ctx := context.Background()
	stored := &domain.User{ID: 7, Username: "Tester", PasswordHash: hash, Active: true}
	mockRepo.On("GetByUsername", ctx, "Tester").Return(stored, nil).Once()
	mockTokens.On("Issue", stored).Return("token-123", nil).Once()

	user, token, err := service.Login(ctx, "Tester", "#Tester12")

	assert.NoError(t, err)
	assert.Equal(t, "token-123", token)
	assert.Equal(t, int64(7), user.ID)
}

func TestUserService_Login_WrongPassword(t *testing.T) {
	mockRepo := &MockUserRepository{}
	service := NewUserService(mockRepo, nil, &MockTokenIssuer{}, defaultPhoto)

	hash, err := auth.HashPassword("#Tester12")
	assert.NoError(t, err)

	ctx := context.Background()
	stored := &domain.User{ID: 7, Username: "Tester", PasswordHash: hash, Active: true}
	mockRepo.On("GetByUsername", ctx, "Tester").Return(stored, nil).Once()

	user, token, err := service.Login(ctx, "Tester", "wrong-password")

	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	assert.Nil(t, user)
	assert.Empty(t, token)
}

// An unknown username reports the same error as a wrong password.
func TestUserService_Login_UnknownUser(t *testing.T) {
	mockRepo := &MockUserRepository{}
	service := NewUserService(mockRepo, nil, &MockTokenIssuer{}, defaultPhoto)

	ctx := context.Background()
	mockRepo.On("GetByUsername", ctx, "nobody").Return(nil, apperrors.ErrUserNotFound).Once()

	_, _, err := service.Login(ctx, "nobody", "#Tester12")

	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestUserService_Login_DisabledAccount(t *testing.T) {
	mockRepo := &MockUserRepository{}
	service := NewUserService(mockRepo, nil, &MockTokenIssuer{}, defaultPhoto)

	hash, err := auth.HashPassword("#Tester12")
	assert.NoError(t, err)

	ctx := context.Background()
	stored := &domain.User{ID: 7, Username: "Tester", PasswordHash: hash, Active: false}
	mockRepo.On("GetByUsername", ctx, "Tester").Return(stored, nil).Once()

	_, _, err = service.Login(ctx, "Tester", "#Tester12")

	assert.ErrorIs(t, err, apperrors.ErrAccountDisabled)
}

func TestUserService_UploadPhoto(t *testing.T) {
	mockRepo := &MockUserRepository{}
	mockPhotos := &MockPhotoStore{}
	service := NewUserService(mockRepo, mockPhotos, &MockTokenIssuer{}, defaultPhoto)

	ctx := context.Background()
	stored := &domain.User{ID: 7, Username: "Tester", Photo: defaultPhoto}
	updated := &domain.User{ID: 7, Username: "Tester", Photo: "https://cdn.example.com/user_7_photo.png"}

	mockRepo.On("GetByID", ctx, int64(7)).Return(stored, nil).Once()
	mockPhotos.On("Store", ctx, mock.Anything, "user_7_photo").
		Return("https://cdn.example.com/user_7_photo.png", nil).Once()
	mockRepo.On("UpdatePhoto", ctx, int64(7), "https://cdn.example.com/user_7_photo.png").Return(updated, nil).Once()

	user, err := service.UploadPhoto(ctx, 7, bytes.NewReader([]byte("png-bytes")))

	assert.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/user_7_photo.png", user.Photo)
	mockPhotos.AssertExpectations(t)
}

func TestUserService_UploadPhoto_NoStore(t *testing.T) {
	service := NewUserService(&MockUserRepository{}, nil, &MockTokenIssuer{}, defaultPhoto)

	user, err := service.UploadPhoto(context.Background(), 7, bytes.NewReader(nil))

	assert.Error(t, err)
	assert.Nil(t, user)
}

func TestUserService_UploadPhoto_UnknownUser(t *testing.T) {
	mockRepo := &MockUserRepository{}
	mockPhotos := &MockPhotoStore{}
	service := NewUserService(mockRepo, mockPhotos, &MockTokenIssuer{}, defaultPhoto)

	ctx := context.Background()
	mockRepo.On("GetByID", ctx, int64(999)).Return(nil, apperrors.ErrUserNotFound).Once()

	user, err := service.UploadPhoto(ctx, 999, bytes.NewReader(nil))

	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	assert.Nil(t, user)
	mockPhotos.AssertNotCalled(t, "Store")
}

func TestUserService_DeletePhoto_ResetsToDefault(t *testing.T) {
	mockRepo := &MockUserRepository{}
	mockPhotos := &MockPhotoStore{}
	service := NewUserService(mockRepo, mockPhotos, &MockTokenIssuer{}, defaultPhoto)

	ctx := context.Background()
	stored := &domain.User{ID: 7, Username: "Tester", Photo: "https://cdn.example.com/user_7_photo.png"}
	reset := &domain.User{ID: 7, Username: "Tester", Photo: defaultPhoto}

	mockRepo.On("GetByID", ctx, int64(7)).Return(stored, nil).Once()
	mockPhotos.On("Delete", ctx, "user_7_photo").Return(nil).Once()
	mockRepo.On("UpdatePhoto", ctx, int64(7), defaultPhoto).Return(reset, nil).Once()

	user, err := service.DeletePhoto(ctx, 7)

	assert.NoError(t, err)
	assert.Equal(t, defaultPhoto, user.Photo)
	mockPhotos.AssertExpectations(t)
}

// Blob delete failures must not block the reset.
func TestUserService_DeletePhoto_BlobDeleteFails(t *testing.T) {
	mockRepo := &MockUserRepository{}
	mockPhotos := &MockPhotoStore{}
	service := NewUserService(mockRepo, mockPhotos, &MockTokenIssuer{}, defaultPhoto)

	ctx := context.Background()
	stored := &domain.User{ID: 7, Username: "Tester", Photo: "https://cdn.example.com/user_7_photo.png"}
	reset := &domain.User{ID: 7, Username: "Tester", Photo: defaultPhoto}

	mockRepo.On("GetByID", ctx, int64(7)).Return(stored, nil).Once()
	mockPhotos.On("Delete", ctx, "user_7_photo").Return(errors.New("cdn unavailable")).Once()
	mockRepo.On("UpdatePhoto", ctx, int64(7), defaultPhoto).Return(reset, nil).Once()

	user, err := service.DeletePhoto(ctx, 7)

	assert.NoError(t, err)
	assert.Equal(t, defaultPhoto, user.Photo)
}

func TestUserService_DeletePhoto_AlreadyDefault(t *testing.T) {
	mockRepo := &MockUserRepository{}
	mockPhotos := &MockPhotoStore{}
	service := NewUserService(mockRepo, mockPhotos, &MockTokenIssuer{}, defaultPhoto)

	ctx := context.Background()
	stored := &domain.User{ID: 7, Username: "Tester", Photo: defaultPhoto}
	mockRepo.On("GetByID", ctx, int64(7)).Return(stored, nil).Once()
	mockRepo.On("UpdatePhoto", ctx, int64(7), defaultPhoto).Return(stored, nil).Once()

	_, err := service.DeletePhoto(ctx, 7)

	assert.NoError(t, err)
	mockPhotos.AssertNotCalled(t, "Delete")
}
