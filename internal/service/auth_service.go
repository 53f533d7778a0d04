package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"parking_enforcement/internal/domain"
	"parking_enforcement/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	userRepo           repository.UserRepository
	officialRepo       repository.OfficialRepository
	jwtSecret          string
	jwtExpirationHours time.Duration
	log                *zap.SugaredLogger
}

func NewAuthService(
	userRepo repository.UserRepository,
	officialRepo repository.OfficialRepository,
	jwtSecret string,
	jwtExpHours time.Duration,
	log *zap.SugaredLogger,
) *AuthService {
	return &AuthService{
		userRepo:           userRepo,
		officialRepo:       officialRepo,
		jwtSecret:          jwtSecret,
		jwtExpirationHours: jwtExpHours,
		log:                log,
	}
}

// Login checks the password, resolves the official profile that carries the
// role and issues a signed token.
func (s *AuthService) Login(ctx context.Context, dto domain.LoginUserDTO) (*domain.AuthResponseDTO, error) {
	user, err := s.userRepo.FindByEmail(ctx, dto.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("AuthService.Login: finding user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(dto.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	official, err := s.officialRepo.FindByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoOfficialProfile
		}
		return nil, fmt.Errorf("AuthService.Login: finding official: %w", err)
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":         user.ID,
		"exp":         now.Add(s.jwtExpirationHours).Unix(),
		"iat":         now.Unix(),
		"role":        string(official.Type),
		"email":       user.Email,
		"official_id": official.ID,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return nil, fmt.Errorf("AuthService.Login: signing token: %w", err)
	}

	s.log.Infow("official signed in", "user_id", user.ID, "role", official.Type)
	return &domain.AuthResponseDTO{
		Token:    tokenString,
		UserID:   user.ID,
		Email:    user.Email,
		Official: official,
	}, nil
}

// ValidateToken is used by the auth middleware.
func (s *AuthService) ValidateToken(tokenString string) (*jwt.Token, jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenMalformed) {
			return nil, nil, fmt.Errorf("%w: malformed token", ErrTokenInvalid)
		} else if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, nil, fmt.Errorf("%w: token expired", ErrTokenInvalid)
		} else if errors.Is(err, jwt.ErrTokenNotValidYet) {
			return nil, nil, fmt.Errorf("%w: token not valid yet", ErrTokenInvalid)
		}
		return nil, nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	if !token.Valid {
		return nil, nil, ErrTokenInvalid
	}
	return token, claims, nil
}

// CreateAccount creates the auth user and its official profile together.
func (s *AuthService) CreateAccount(ctx context.Context, dto domain.CreateAccountDTO) (*domain.Official, error) {
	officialType := domain.OfficialType(dto.Type)
	if !officialType.Valid() {
		return nil, fmt.Errorf("%w: unknown official type '%s'", ErrValidation, dto.Type)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(dto.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("AuthService.CreateAccount: hashing password: %w", err)
	}

	user := &domain.User{
		Email:    strings.ToLower(strings.TrimSpace(dto.Email)),
		Password: string(hashedPassword),
	}
	official := &domain.Official{
		Name:       strings.TrimSpace(dto.Name),
		OfficialID: strings.TrimSpace(dto.OfficialID),
		Type:       officialType,
	}
	created, err := s.officialRepo.CreateWithUser(ctx, user, official)
	if err != nil {
		return nil, err
	}
	s.log.Infow("official account created", "official_id", created.OfficialID, "type", created.Type)
	return created, nil
}

// Account returns the signed-in user with their official profile.
func (s *AuthService) Account(ctx context.Context, userID string) (*domain.Account, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	official, err := s.officialRepo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoOfficialProfile
		}
		return nil, err
	}
	user.Password = ""
	return &domain.Account{User: *user, Official: *official}, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID string, dto domain.ChangePasswordDTO) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(dto.CurrentPassword)); err != nil {
		return ErrInvalidCredentials
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(dto.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("AuthService.ChangePassword: hashing password: %w", err)
	}
	return s.userRepo.UpdatePassword(ctx, userID, string(hashedPassword))
}

var (
	cityMenu = []domain.MenuItem{
		{Key: "areas", Title: "Parking Areas"},
		{Key: "add-parking", Title: "Add Parking"},
		{Key: "sessions", Title: "Parking Sessions"},
		{Key: "reports", Title: "Reports"},
		{Key: "compounds", Title: "Compounds"},
		{Key: "officials", Title: "Officials"},
		{Key: "transactions", Title: "Transactions"},
	}
	enforcementMenu = []domain.MenuItem{
		{Key: "areas", Title: "Parking Areas"},
		{Key: "sessions", Title: "Parking Sessions"},
		{Key: "reports", Title: "Reports"},
		{Key: "compounds", Title: "Compounds"},
	}
)

// Menu returns the home menu entries visible to an official type.
func Menu(role domain.OfficialType) []domain.MenuItem {
	var items []domain.MenuItem
	switch role {
	case domain.OfficialCity:
		items = cityMenu
	case domain.OfficialEnforcement:
		items = enforcementMenu
	default:
		return []domain.MenuItem{}
	}
	return append([]domain.MenuItem(nil), items...)
}
