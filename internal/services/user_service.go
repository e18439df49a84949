package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shiftstock/internal/caching"
	"shiftstock/internal/common"
	"shiftstock/internal/middleware"
	"shiftstock/internal/models"
	"shiftstock/internal/repositories"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// ErrBadCredentials covers both unknown employee ids and wrong PINs so the
// login response never reveals which one failed.
var ErrBadCredentials = errors.New("invalid credentials")

// ErrRateLimited means too many login attempts for one employee id inside
// the window. A 4-digit PIN space is small enough to enumerate otherwise.
var ErrRateLimited = errors.New("too many attempts")

const (
	loginAttemptLimit  = 10
	loginAttemptWindow = time.Minute
)

// LoginResult is what a successful login hands back to the client.
type LoginResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

type UserService interface {
	Login(ctx context.Context, employeeID, pin string) (*LoginResult, error)
	CreateEmployee(ctx context.Context, name, employeeID, pin, role string, storeIDs []string) (*models.User, error)
	GrantStores(ctx context.Context, userID uuid.UUID, storeIDs []string, defaultStoreID string) (*models.User, error)
	ChangePIN(ctx context.Context, userID uuid.UUID, pin string) error
	GetByID(ctx context.Context, userID uuid.UUID) (*models.User, error)
	List(ctx context.Context, limit, offset int) ([]*models.User, error)
	Deactivate(ctx context.Context, userID uuid.UUID) error
}

type userService struct {
	userRepo     repositories.UserRepository
	cacheService caching.CacheService
	jwtSecret    []byte
	tokenTTL     time.Duration
}

func NewUserService(userRepo repositories.UserRepository, cacheService caching.CacheService, jwtSecret string, tokenTTL time.Duration) UserService {
	return &userService{
		userRepo:     userRepo,
		cacheService: cacheService,
		jwtSecret:    []byte(jwtSecret),
		tokenTTL:     tokenTTL,
	}
}

func (s *userService) Login(ctx context.Context, employeeID, pin string) (*LoginResult, error) {
	if err := common.ValidateEmployeeID(employeeID); err != nil {
		return nil, ErrBadCredentials
	}
	if err := common.ValidatePIN(pin); err != nil {
		return nil, ErrBadCredentials
	}

	limited, err := s.cacheService.IsRateLimited(ctx, "login:"+employeeID, loginAttemptLimit, loginAttemptWindow)
	if err != nil {
		// Fail open when redis is unreachable; login still works, just
		// without the attempt counter.
		log.WithError(err).Warn("login rate limit check failed")
	} else if limited {
		return nil, ErrRateLimited
	}

	user, err := s.userRepo.GetByEmployeeID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBadCredentials
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PinHash), []byte(pin)); err != nil {
		return nil, ErrBadCredentials
	}

	now := time.Now()
	expiresAt := now.Add(s.tokenTTL)
	claims := middleware.JWTCustomClaims{
		UserID:     user.ID.String(),
		Role:       user.Role,
		Name:       user.Name,
		EmployeeID: user.EmployeeID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &LoginResult{Token: signed, ExpiresAt: expiresAt, User: user}, nil
}

// CreateEmployee provisions a login. The identifier formats are enforced
// here, before anything touches the database.
func (s *userService) CreateEmployee(ctx context.Context, name, employeeID, pin, role string, storeIDs []string) (*models.User, error) {
	if err := common.ValidateRequiredString(name, "name"); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := common.ValidateEmployeeID(employeeID); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := common.ValidatePIN(pin); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if role != models.RoleAdmin && role != models.RoleEmployee {
		return nil, fmt.Errorf("%w: role must be admin or employee", ErrValidation)
	}
	for _, storeID := range storeIDs {
		if err := common.ValidateStoreID(storeID); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	defaultStoreID := ""
	if len(storeIDs) > 0 {
		defaultStoreID = storeIDs[0]
	}

	user := &models.User{
		ID:             uuid.New(),
		Role:           role,
		StoreIDs:       storeIDs,
		DefaultStoreID: defaultStoreID,
		Name:           name,
		EmployeeID:     employeeID,
		PinHash:        string(hash),
		IsActive:       true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) GrantStores(ctx context.Context, userID uuid.UUID, storeIDs []string, defaultStoreID string) (*models.User, error) {
	for _, storeID := range storeIDs {
		if err := common.ValidateStoreID(storeID); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.StoreIDs = storeIDs
	if defaultStoreID != "" {
		if !user.HasStore(defaultStoreID) {
			return nil, fmt.Errorf("%w: default store must be one of the granted stores", ErrValidation)
		}
		user.DefaultStoreID = defaultStoreID
	} else if len(storeIDs) > 0 && !user.HasStore(user.DefaultStoreID) {
		user.DefaultStoreID = storeIDs[0]
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) ChangePIN(ctx context.Context, userID uuid.UUID, pin string) error {
	if err := common.ValidatePIN(pin); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PinHash = string(hash)

	return s.userRepo.Update(ctx, user)
}

func (s *userService) GetByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

func (s *userService) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	return s.userRepo.List(ctx, limit, offset)
}

func (s *userService) Deactivate(ctx context.Context, userID uuid.UUID) error {
	return s.userRepo.SetActive(ctx, userID, false)
}
