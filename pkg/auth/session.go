package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/tendant/gymdesk/pkg/domain"
)

// DefaultAccessTokenTTL is used when no TTL is configured.
const DefaultAccessTokenTTL = 8 * time.Hour

// SessionConfig holds session configuration.
type SessionConfig struct {
	AccessTokenTTL time.Duration
	JWTSecret      []byte
	Issuer         string
}

// SessionService issues and validates staff access tokens.
type SessionService struct {
	config SessionConfig
	now    func() time.Time
}

// NewSessionService creates a new session service.
func NewSessionService(config SessionConfig) *SessionService {
	if config.AccessTokenTTL == 0 {
		config.AccessTokenTTL = DefaultAccessTokenTTL
	}
	return &SessionService{
		config: config,
		now:    time.Now,
	}
}

// AccessTokenTTL returns the access token TTL.
func (s *SessionService) AccessTokenTTL() time.Duration {
	return s.config.AccessTokenTTL
}

// AccessTokenClaims represents the claims in an access token.
type AccessTokenClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

// IssueAccessToken signs an access token for a staff account.
func (s *SessionService) IssueAccessToken(staff *domain.Staff) (*domain.TokenPair, error) {
	now := s.now()
	expiresAt := now.Add(s.config.AccessTokenTTL)

	name := ""
	if staff.Name != nil {
		name = *staff.Name
	}
	claims := AccessTokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   staff.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			Issuer:    s.config.Issuer,
			ID:        uuid.NewString(),
		},
		Email: staff.Email,
		Name:  name,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	accessToken, err := token.SignedString(s.config.JWTSecret)
	if err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int(s.config.AccessTokenTTL.Seconds()),
		ExpiresAt:   expiresAt,
	}, nil
}

// ValidateAccessToken validates an access token and returns the claims.
func (s *SessionService) ValidateAccessToken(tokenString string) (*AccessTokenClaims, error) {
	opts := []jwt.ParserOption{jwt.WithTimeFunc(s.now)}
	if s.config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.config.Issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &AccessTokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrInvalidToken
		}
		return s.config.JWTSecret, nil
	}, opts...)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	claims, ok := token.Claims.(*AccessTokenClaims)
	if !ok || !token.Valid {
		return nil, domain.ErrInvalidToken
	}

	return claims, nil
}

// GetStaffIDFromToken extracts the staff ID from an access token.
func (s *SessionService) GetStaffIDFromToken(tokenString string) (uuid.UUID, error) {
	claims, err := s.ValidateAccessToken(tokenString)
	if err != nil {
		return uuid.Nil, err
	}

	return uuid.Parse(claims.Subject)
}
