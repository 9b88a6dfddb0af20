package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/agrolease/agrolease-backend/internal/entity"
	"github.com/agrolease/agrolease-backend/internal/port/repository"
)

// Mailer sends account emails. Failures are never fatal to the operation
// that triggered them.
type Mailer interface {
	SendWelcomeEmail(toEmail, name string) error
}

type UserUseCase struct {
	repo      repository.UserRepository
	mailer    Mailer
	jwtSecret string
	tokenTTL  time.Duration
	logger    *zap.Logger
}

func NewUserUseCase(repo repository.UserRepository, mailer Mailer, jwtSecret string, tokenTTL time.Duration, logger *zap.Logger) *UserUseCase {
	return &UserUseCase{
		repo:      repo,
		mailer:    mailer,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		logger:    logger,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Role     entity.Role
	Address  *entity.Address
}

// Register creates an account. The admin role is never self-assignable; an
// empty role defaults to leaser.
func (uc *UserUseCase) Register(ctx context.Context, input RegisterInput) (*entity.User, error) {
	role := input.Role
	if role == "" {
		role = entity.RoleLeaser
	}
	if role != entity.RoleOwner && role != entity.RoleLeaser {
		return nil, fmt.Errorf("%w: role must be owner or leaser", ErrValidation)
	}
	if len(input.Password) < 6 {
		return nil, fmt.Errorf("%w: password must be at least 6 characters", ErrValidation)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		uc.logger.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("UserUseCase.Register: %w", err)
	}

	now := time.Now()
	user := &entity.User{
		Name:       input.Name,
		Email:      entity.NormalizeEmail(input.Email),
		Password:   string(hashed),
		Role:       role,
		Phone:      input.Phone,
		Address:    input.Address,
		IsVerified: false,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := user.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	id, err := uc.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrDuplicateEmail
		}
		uc.logger.Error("Failed to create user", zap.String("email", user.Email), zap.Error(err))
		return nil, fmt.Errorf("UserUseCase.Register: %w", err)
	}
	user.ID = id

	if uc.mailer != nil {
		if mailErr := uc.mailer.SendWelcomeEmail(user.Email, user.Name); mailErr != nil {
			uc.logger.Warn("Failed to send welcome email",
				zap.String("email", user.Email), zap.Error(mailErr))
		}
	}
	return user, nil
}

// Login verifies the credentials and issues a signed bearer token carrying
// the user id and role.
func (uc *UserUseCase) Login(ctx context.Context, email, password string) (string, *entity.User, error) {
	user, err := uc.repo.GetByEmail(ctx, entity.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		uc.logger.Error("Failed to fetch user for login", zap.Error(err))
		return "", nil, fmt.Errorf("UserUseCase.Login: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": string(user.Role),
		"iat":  now.Unix(),
		"exp":  now.Add(uc.tokenTTL).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(uc.jwtSecret))
	if err != nil {
		uc.logger.Error("Failed to sign token", zap.String("user_id", user.ID), zap.Error(err))
		return "", nil, fmt.Errorf("UserUseCase.Login: %w", err)
	}
	return token, user, nil
}

func (uc *UserUseCase) GetByID(ctx context.Context, id string) (*entity.User, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: user", ErrNotFound)
		}
		uc.logger.Error("Failed to get user", zap.String("user_id", id), zap.Error(err))
		return nil, fmt.Errorf("UserUseCase.GetByID: %w", err)
	}
	return user, nil
}

type UpdateProfileInput struct {
	Name    *string
	Phone   *string
	Address *entity.Address
}

func (uc *UserUseCase) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*entity.User, error) {
	user, err := uc.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	if input.Address != nil {
		user.Address = input.Address
	}
	user.UpdatedAt = time.Now()

	if err := user.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := uc.repo.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: user", ErrNotFound)
		}
		uc.logger.Error("Failed to update user", zap.String("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("UserUseCase.UpdateProfile: %w", err)
	}
	return user, nil
}

type ListUsersOutput struct {
	Items       []*entity.User `json:"users"`
	Total       int64          `json:"total"`
	TotalPages  int64          `json:"totalPages"`
	CurrentPage int            `json:"currentPage"`
}

// ListUsers pages through accounts, newest first, optionally filtered by
// role. Admin only; the role gate lives in the HTTP middleware.
func (uc *UserUseCase) ListUsers(ctx context.Context, role entity.Role, page, limit int) (*ListUsersOutput, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	users, total, err := uc.repo.List(ctx, role, page, limit)
	if err != nil {
		uc.logger.Error("Failed to list users", zap.Error(err))
		return nil, fmt.Errorf("UserUseCase.ListUsers: %w", err)
	}
	return &ListUsersOutput{
		Items:       users,
		Total:       total,
		TotalPages:  TotalPages(total, limit),
		CurrentPage: page,
	}, nil
}

// DeleteUser hard-deletes an account. Listings owned by the account are left
// in place; their owner reference simply dangles.
func (uc *UserUseCase) DeleteUser(ctx context.Context, id string) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: user", ErrNotFound)
		}
		uc.logger.Error("Failed to delete user", zap.String("user_id", id), zap.Error(err))
		return fmt.Errorf("UserUseCase.DeleteUser: %w", err)
	}
	return nil
}
