package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/agrolease/agrolease-backend/internal/entity"
	"github.com/agrolease/agrolease-backend/internal/port/repository"
)

const testJWTSecret = "test-secret"

func newUserUseCase(repo *MockUserRepository, mailer *MockMailer) *UserUseCase {
	var m Mailer
	if mailer != nil {
		m = mailer
	}
	return NewUserUseCase(repo, m, testJWTSecret, time.Hour, zap.NewNop())
}

func registerInput() RegisterInput {
	return RegisterInput{
		Name:     "Musa Ibrahim",
		Email:    "Musa@Example.com",
		Password: "secret123",
		Phone:    "+2348012345678",
		Role:     entity.RoleOwner,
	}
}

func TestRegisterSuccess(t *testing.T) {
	repo := new(MockUserRepository)
	mailer := new(MockMailer)
	uc := newUserUseCase(repo, mailer)

	repo.On("Create", mock.Anything, mock.AnythingOfType("*entity.User")).Return("user-1", nil)
	mailer.On("SendWelcomeEmail", "musa@example.com", "Musa Ibrahim").Return(nil)

	user, err := uc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	assert.Equal(t, "user-1", user.ID)
	assert.Equal(t, "musa@example.com", user.Email)
	assert.Equal(t, entity.RoleOwner, user.Role)
	assert.False(t, user.IsVerified)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("secret123")))
	mailer.AssertExpectations(t)
}

func TestRegisterDefaultsToLeaser(t *testing.T) {
	repo := new(MockUserRepository)
	uc := newUserUseCase(repo, nil)

	repo.On("Create", mock.Anything, mock.Anything).Return("user-1", nil)

	input := registerInput()
	input.Role = ""
	user, err := uc.Register(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleLeaser, user.Role)
}

func TestRegisterRejectsAdminRole(t *testing.T) {
	repo := new(MockUserRepository)
	uc := newUserUseCase(repo, nil)

	input := registerInput()
	input.Role = entity.RoleAdmin
	_, err := uc.Register(context.Background(), input)

	assert.ErrorIs(t, err, ErrValidation)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegisterShortPassword(t *testing.T) {
	uc := newUserUseCase(new(MockUserRepository), nil)

	input := registerInput()
	input.Password = "abc"
	_, err := uc.Register(context.Background(), input)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := new(MockUserRepository)
	uc := newUserUseCase(repo, nil)

	repo.On("Create", mock.Anything, mock.Anything).Return("", repository.ErrDuplicateEmail)

	_, err := uc.Register(context.Background(), registerInput())
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestRegisterMailerFailureIsNotFatal(t *testing.T) {
	repo := new(MockUserRepository)
	mailer := new(MockMailer)
	uc := newUserUseCase(repo, mailer)

	repo.On("Create", mock.Anything, mock.Anything).Return("user-1", nil)
	mailer.On("SendWelcomeEmail", mock.Anything, mock.Anything).Return(errors.New("smtp down"))

	user, err := uc.Register(context.Background(), registerInput())
	require.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)
}

func TestLoginSuccess(t *testing.T) {
	repo := new(MockUserRepository)
	uc := newUserUseCase(repo, nil)

	hashed, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	stored := &entity.User{ID: "user-1", Email: "musa@example.com", Password: string(hashed), Role: entity.RoleOwner}
	repo.On("GetByEmail", mock.Anything, "musa@example.com").Return(stored, nil)

	token, user, err := uc.Login(context.Background(), "Musa@Example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, "user-1", claims["sub"])
	assert.Equal(t, "owner", claims["role"])
}

func TestLoginWrongPassword(t *testing.T) {
	repo := new(MockUserRepository)
	uc := newUserUseCase(repo, nil)

	hashed, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	stored := &entity.User{ID: "user-1", Email: "musa@example.com", Password: string(hashed)}
	repo.On("GetByEmail", mock.Anything, "musa@example.com").Return(stored, nil)

	_, _, err = uc.Login(context.Background(), "musa@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	repo := new(MockUserRepository)
	uc := newUserUseCase(repo, nil)

	repo.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, repository.ErrNotFound)

	_, _, err := uc.Login(context.Background(), "ghost@example.com", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUpdateProfile(t *testing.T) {
	repo := new(MockUserRepository)
	uc := newUserUseCase(repo, nil)

	stored := &entity.User{
		ID: "user-1", Name: "Musa Ibrahim", Email: "musa@example.com",
		Phone: "+2348012345678", Role: entity.RoleOwner,
	}
	repo.On("GetByID", mock.Anything, "user-1").Return(stored, nil)
	repo.On("Update", mock.Anything, mock.Anything).Return(nil)

	newName := "Musa A. Ibrahim"
	user, err := uc.UpdateProfile(context.Background(), "user-1", UpdateProfileInput{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, "Musa A. Ibrahim", user.Name)
	assert.Equal(t, "+2348012345678", user.Phone)
}

func TestDeleteUserNotFound(t *testing.T) {
	repo := new(MockUserRepository)
	uc := newUserUseCase(repo, nil)

	repo.On("Delete", mock.Anything, "ghost").Return(repository.ErrNotFound)

	err := uc.DeleteUser(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}
