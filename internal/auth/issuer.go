package auth

import (
	"crypto/rsa"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// IssuedToken is the payload returned for a successful token request
type IssuedToken struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// IssuerConfig contains configuration for token issuance
type IssuerConfig struct {
	PrivateKey *rsa.PrivateKey
	Issuer     string
	Audience   string
	AccessTTL  time.Duration
	Logger     *zap.Logger
}

// Issuer generates and signs access tokens
type Issuer struct {
	privateKey *rsa.PrivateKey
	issuer     string
	audience   string
	accessTTL  time.Duration
	logger     *zap.Logger
}

// NewIssuer creates a new token issuer
func NewIssuer(cfg *IssuerConfig) (*Issuer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.PrivateKey == nil {
		return nil, fmt.Errorf("private key is required")
	}
	if cfg.Issuer == "" {
		return nil, fmt.Errorf("issuer is required")
	}
	if cfg.Audience == "" {
		return nil, fmt.Errorf("audience is required")
	}

	accessTTL := cfg.AccessTTL
	if accessTTL == 0 {
		accessTTL = 1 * time.Hour
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Issuer{
		privateKey: cfg.PrivateKey,
		issuer:     cfg.Issuer,
		audience:   cfg.Audience,
		accessTTL:  accessTTL,
		logger:     logger,
	}, nil
}

// IssueToken signs an RS256 access token carrying the user's claims
func (i *Issuer) IssueToken(user *User) (*IssuedToken, error) {
	if user == nil {
		return nil, fmt.Errorf("user is required")
	}

	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			Issuer:    i.issuer,
			Audience:  jwt.ClaimStrings{i.audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(i.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
		Roles:         user.Roles,
		Permissions:   user.Permissions,
		SecurityLevel: user.SecurityLevel,
		Department:    user.Department,
		Region:        user.Region,
		Attributes:    user.Attributes,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signed, err := token.SignedString(i.privateKey)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	i.logger.Info("Token issued",
		zap.String("subject", user.Username),
		zap.Int64("expires_in", int64(i.accessTTL.Seconds())))

	return &IssuedToken{
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresIn:   int64(i.accessTTL.Seconds()),
	}, nil
}
