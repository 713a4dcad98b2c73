package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"SchoolAPI/internal/app_errors"
	"SchoolAPI/internal/models"
)

var signingMethod = jwt.SigningMethodHS256

type TokenIssuer struct {
	secretKey string
	issuer    string
	audience  string
	accessTTL time.Duration
}

func NewTokenIssuer(secretKey, issuer, audience string, accessTTL time.Duration) (*TokenIssuer, error) {
	if secretKey == "" {
		return nil, app_errors.ErrMissingSigningKey
	}
	if accessTTL == 0 {
		accessTTL = 15 * time.Minute
	}
	return &TokenIssuer{
		secretKey: secretKey,
		issuer:    issuer,
		audience:  audience,
		accessTTL: accessTTL,
	}, nil
}

type AccessTokenClaims struct {
	Name  string   `json:"name"`
	Roles []string `json:"role"`
	jwt.RegisteredClaims
}

// Issue builds a signed access token for the username carrying one role
// claim per assigned role. Pure function of inputs, configuration and clock.
func (j *TokenIssuer) Issue(username string, roles []string) (*models.UserToken, error) {
	now := time.Now()
	expiration := now.Add(j.accessTTL)

	token := jwt.NewWithClaims(signingMethod, AccessTokenClaims{
		Name:  username,
		Roles: append([]string(nil), roles...),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			Issuer:    j.issuer,
			Audience:  jwt.ClaimStrings{j.audience},
			ExpiresAt: jwt.NewNumericDate(expiration),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	})

	signed, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return nil, fmt.Errorf("access token signing failed: %w", err)
	}

	return &models.UserToken{Token: signed, Expiration: expiration}, nil
}

// Claims validates signature, issuer, audience and expiry, then returns the
// embedded claims.
func (j *TokenIssuer) Claims(tokenStr string) (*AccessTokenClaims, error) {
	claims := &AccessTokenClaims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method != signingMethod {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(j.secretKey), nil
	}, jwt.WithIssuer(j.issuer), jwt.WithAudience(j.audience))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, app_errors.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", app_errors.ErrInvalidToken, err)
	}

	return claims, nil
}
