package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/akimenko/airtech/internal/domain"
	"github.com/akimenko/airtech/internal/service/users"
	"github.com/akimenko/airtech/internal/validation"
	"github.com/akimenko/airtech/pkg/apperrors"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockUserUseCase struct {
	mock.Mock
}

func (m *mockUserUseCase) Register(ctx context.Context, input users.RegisterInput) (*domain.User, string, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*domain.User), args.String(1), args.Error(2)
}

func (m *mockUserUseCase) Login(ctx context.Context, username, password string) (*domain.User, string, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*domain.User), args.String(1), args.Error(2)
}

func (m *mockUserUseCase) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserUseCase) UploadPhoto(ctx context.Context, id int64, photo io.Reader) (*domain.User, error) {
	args := m.Called(ctx, id, photo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserUseCase) DeletePhoto(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func passthroughAuth(c *gin.Context) {
	c.Next()
}

func newUserRouter(service users.UserUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewUserHandler(service).Register(router.Group(""), passthroughAuth)
	return router
}

func sampleUser() *domain.User {
	return &domain.User{
		ID:       7,
		Username: "Tester",
		Email:    "apitester@yahoo.com",
		Photo:    "image/upload/default_image.png",
		Active:   true,
	}
}

func TestUserHandler_Create(t *testing.T) {
	service := &mockUserUseCase{}
	router := newUserRouter(service)

	service.On("Register", mock.Anything, mock.AnythingOfType("users.RegisterInput")).
		Return(sampleUser(), "token-123", nil).Once()

	raw, _ := json.Marshal(map[string]string{
		"username": "Tester",
		"email":    "apitester@yahoo.com",
		"password": "#Tester12",
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/user/create/", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		User  map[string]interface{} `json:"user"`
		Token string                 `json:"token"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "token-123", resp.Token)
	assert.Equal(t, "Tester", resp.User["username"])
	assert.Equal(t, float64(7), resp.User["user_id"])
}

func TestUserHandler_Create_WeakPassword(t *testing.T) {
	service := &mockUserUseCase{}
	router := newUserRouter(service)

	service.On("Register", mock.Anything, mock.AnythingOfType("users.RegisterInput")).
		Return(nil, "", validation.ErrWeakPassword).Once()

	raw, _ := json.Marshal(map[string]string{
		"username": "Tester",
		"email":    "apitester@yahoo.com",
		"password": "password",
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/user/create/", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "error")
}

func TestUserHandler_Create_BadDateOfBirth(t *testing.T) {
	service := &mockUserUseCase{}
	router := newUserRouter(service)

	raw, _ := json.Marshal(map[string]string{
		"username":      "Tester",
		"email":         "apitester@yahoo.com",
		"password":      "#Tester12",
		"date_of_birth": "13/05/1990",
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/user/create/", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	service.AssertNotCalled(t, "Register")
}

func TestUserHandler_Login(t *testing.T) {
	service := &mockUserUseCase{}
	router := newUserRouter(service)

	service.On("Login", mock.Anything, "Tester", "#Tester12").
		Return(sampleUser(), "token-123", nil).Once()

	raw, _ := json.Marshal(map[string]string{
		"username": "Tester",
		"password": "#Tester12",
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/user/login/", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "token-123")
}

func TestUserHandler_Login_BadCredentials(t *testing.T) {
	service := &mockUserUseCase{}
	router := newUserRouter(service)

	service.On("Login", mock.Anything, "Tester", "wrong").
		Return(nil, "", apperrors.ErrInvalidCredentials).Once()

	raw, _ := json.Marshal(map[string]string{
		"username": "Tester",
		"password": "wrong",
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/user/login/", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func photoForm(t *testing.T, field string, payload []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(field, "photo.png")
	assert.NoError(t, err)
	_, err = part.Write(payload)
	assert.NoError(t, err)
	assert.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestUserHandler_UploadPhoto(t *testing.T) {
	service := &mockUserUseCase{}
	router := newUserRouter(service)

	updated := sampleUser()
	updated.Photo = "https://cdn.example.com/user_7_photo.png"
	service.On("UploadPhoto", mock.Anything, int64(7), mock.Anything).Return(updated, nil).Once()

	body, contentType := photoForm(t, "photo", []byte("png-bytes"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/user/7/upload_photo/", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"photo":"https://cdn.example.com/user_7_photo.png"}`, w.Body.String())
}

func TestUserHandler_UploadPhoto_MissingFile(t *testing.T) {
	service := &mockUserUseCase{}
	router := newUserRouter(service)

	body, contentType := photoForm(t, "attachment", []byte("png-bytes"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/user/7/upload_photo/", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	service.AssertNotCalled(t, "UploadPhoto")
}

func TestUserHandler_UploadPhoto_TooLarge(t *testing.T) {
	service := &mockUserUseCase{}
	router := newUserRouter(service)

	body, contentType := photoForm(t, "photo", make([]byte, maxPhotoBytes+1))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/user/7/upload_photo/", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	service.AssertNotCalled(t, "UploadPhoto")
}

func TestUserHandler_DeletePhoto(t *testing.T) {
	service := &mockUserUseCase{}
	router := newUserRouter(service)

	service.On("DeletePhoto", mock.Anything, int64(7)).Return(sampleUser(), nil).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/user/7/upload_photo/", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestUserHandler_DeletePhoto_UnknownUser(t *testing.T) {
	service := &mockUserUseCase{}
	router := newUserRouter(service)

	service.On("DeletePhoto", mock.Anything, int64(999)).Return(nil, apperrors.ErrUserNotFound).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/user/999/upload_photo/", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
