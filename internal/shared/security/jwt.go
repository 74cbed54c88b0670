package security

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	SecretEnv = "JWT_SECRET"
	issuer    = "wayfarer"

	// ScopeWorldWrite 允许生成与改名。
	ScopeWorldWrite = "world:write"

	DefaultTokenTTL = 24 * time.Hour
)

var (
	ErrJWTSecretMissing = errors.New("JWT_SECRET is not set")
	ErrScopeMissing     = errors.New("token lacks required scope")
)

// Claims 操作者令牌：Subject 为操作者标识。
type Claims struct {
	Scopes []string `json:"scopes,omitempty"`
	jwt.RegisteredClaims
}

func (c *Claims) HasScope(scope string) bool {
	return c != nil && slices.Contains(c.Scopes, scope)
}

// Enabled 配置了 JWT_SECRET 才校验令牌。
func Enabled() bool {
	return os.Getenv(SecretEnv) != ""
}

func jwtSecret() ([]byte, error) {
	secret := os.Getenv(SecretEnv)
	if secret == "" {
		return nil, ErrJWTSecretMissing
	}
	return []byte(secret), nil
}

// Award 给操作者签发令牌，ttl <= 0 使用 DefaultTokenTTL。
func Award(subject string, scopes []string, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", fmt.Errorf("token subject is empty")
	}
	key, err := jwtSecret()
	if err != nil {
		return "", err
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	now := time.Now()
	claims := &Claims{
		Scopes: slices.Clone(scopes),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
}

// ParseToken 校验签名、过期与签发方。
func ParseToken(tokenStr string) (*Claims, error) {
	key, err := jwtSecret()
	if err != nil {
		return nil, err
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(issuer))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
