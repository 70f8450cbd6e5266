package auth

import (
	"crypto/rsa"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/bookvault/go-api/pkg/types"
)

// ValidatorConfig contains configuration for token validation
type ValidatorConfig struct {
	PublicKey *rsa.PublicKey
	Issuer    string
	Audience  string
	Logger    *zap.Logger
}

// Validator parses and validates access tokens
type Validator struct {
	publicKey *rsa.PublicKey
	issuer    string
	audience  string
	logger    *zap.Logger
}

// NewValidator creates a new token validator
func NewValidator(cfg *ValidatorConfig) (*Validator, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.PublicKey == nil {
		return nil, fmt.Errorf("public key is required")
	}
	if cfg.Issuer == "" {
		return nil, fmt.Errorf("issuer is required")
	}
	if cfg.Audience == "" {
		return nil, fmt.Errorf("audience is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Validator{
		publicKey: cfg.PublicKey,
		issuer:    cfg.Issuer,
		audience:  cfg.Audience,
		logger:    logger,
	}, nil
}

// Validate validates a token string and returns its claims
func (v *Validator) Validate(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("%w: empty token", ErrInvalidToken)
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, v.keyFunc,
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithIssuer(v.issuer),
		jwt.WithAudience(v.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.ID == "" {
		return nil, fmt.Errorf("%w: missing jti claim", ErrInvalidToken)
	}

	return claims, nil
}

// keyFunc guards against algorithm confusion before the signature check
func (v *Validator) keyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return v.publicKey, nil
}

// ClaimSet validates a token and flattens its claims for the decision engine
func (v *Validator) ClaimSet(tokenString string) (*types.ClaimSet, error) {
	claims, err := v.Validate(tokenString)
	if err != nil {
		return nil, err
	}

	pairs := claims.ClaimPairs()
	v.logger.Debug("Token claims extracted",
		zap.String("subject", claims.Subject),
		zap.Int("claims", len(pairs)))

	return types.NewClaimSet(pairs), nil
}
