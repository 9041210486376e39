package service

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/suteetoe/quoteflow/internal/apperr"
	"github.com/suteetoe/quoteflow/internal/model"
	"github.com/suteetoe/quoteflow/internal/repository"
	"github.com/suteetoe/quoteflow/pkg/jwtutil"
	"github.com/suteetoe/quoteflow/prometheus"
)

const invalidCredentials = "invalid email or password"

// AuthResult is returned by Register and Authenticate
type AuthResult struct {
	Token    string          `json:"token"`
	Merchant *model.Merchant `json:"user"`
}

type AuthService struct {
	merchants repository.MerchantRepository
	jwt       *jwtutil.JWTUtil
	log       *zap.Logger
	hashCost  int
}

func NewAuthService(merchants repository.MerchantRepository, jwt *jwtutil.JWTUtil, log *zap.Logger) *AuthService {
	return &AuthService{
		merchants: merchants,
		jwt:       jwt,
		log:       log,
		hashCost:  bcrypt.DefaultCost,
	}
}

// Register creates a merchant account and signs a credential for it
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	prometheus.RegisterCounter.Inc()

	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	switch {
	case name == "":
		return nil, apperr.Validation("name", "name is required")
	case email == "":
		return nil, apperr.Validation("email", "email is required")
	case password == "":
		return nil, apperr.Validation("password", "password is required")
	}

	_, err := s.merchants.FindByEmail(ctx, email)
	if err == nil {
		prometheus.RecordAuthError("email_in_use")
		return nil, apperr.Conflict("email", "email already in use")
	}
	if !apperr.Is(err, apperr.KindNotFound) {
		prometheus.RecordAuthError("db_error")
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return nil, apperr.Internal("hash password", err)
	}

	merchant := &model.Merchant{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.merchants.Create(ctx, merchant); err != nil {
		if apperr.Is(err, apperr.KindConflict) {
			prometheus.RecordAuthError("email_in_use")
		}
		return nil, err
	}

	token, err := s.jwt.GenerateToken(merchant.ID, merchant.Email)
	if err != nil {
		prometheus.RecordAuthError("token_generation_failed")
		return nil, apperr.Internal("generate token", err)
	}

	s.log.Info("Merchant registered",
		zap.String("merchant_id", merchant.ID),
		zap.String("email", merchant.Email))

	return &AuthResult{Token: token, Merchant: merchant}, nil
}

// Authenticate checks the password and signs a new credential. Unknown email and wrong
// password fail the same way.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*AuthResult, error) {
	prometheus.LoginCounter.Inc()

	email = normalizeEmail(email)
	if email == "" {
		return nil, apperr.Validation("email", "email is required")
	}
	if password == "" {
		return nil, apperr.Validation("password", "password is required")
	}

	merchant, err := s.merchants.FindByEmail(ctx, email)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			s.log.Warn("Login for unknown email", zap.String("email", email))
			prometheus.RecordAuthError("user_not_found")
			return nil, apperr.Unauthorized(invalidCredentials)
		}
		prometheus.RecordAuthError("db_error")
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(merchant.PasswordHash), []byte(password)); err != nil {
		s.log.Warn("Invalid password", zap.String("email", email))
		prometheus.RecordAuthError("invalid_password")
		return nil, apperr.Unauthorized(invalidCredentials)
	}

	token, err := s.jwt.GenerateToken(merchant.ID, merchant.Email)
	if err != nil {
		prometheus.RecordAuthError("token_generation_failed")
		return nil, apperr.Internal("generate token", err)
	}

	s.log.Info("Merchant logged in", zap.String("merchant_id", merchant.ID))
	return &AuthResult{Token: token, Merchant: merchant}, nil
}

// ResolveCredential returns the merchant id carried by a valid token
func (s *AuthService) ResolveCredential(token string) (string, error) {
	claims, err := s.jwt.ValidateToken(token)
	if err != nil {
		prometheus.RecordAuthError("invalid_token")
		return "", apperr.Unauthorized("invalid or expired token")
	}
	return claims.MerchantID, nil
}

// Profile returns the merchant behind a resolved credential
func (s *AuthService) Profile(ctx context.Context, merchantID string) (*model.Merchant, error) {
	if !validID(merchantID) {
		return nil, apperr.NotFound("merchant not found")
	}
	return s.merchants.FindByID(ctx, merchantID)
}
