package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const DefaultTTL = 20 * time.Minute

var (
	ErrUnknownAlgorithm = errors.New("unknown signing algorithm")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrTokenExpired     = errors.New("token expired")
	ErrMalformedToken   = errors.New("malformed token")
)

type Claims struct {
	Username string `json:"sub"`
	UserID   int64  `json:"id"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

type Manager struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
}

// NewManager builds a token manager from the process-wide signing config.
// The algorithm name comes straight from the ALGORITHM env var; anything
// outside the HMAC family is rejected so startup can fail fast.
func NewManager(secret, algorithm string, ttl time.Duration) (*Manager, error) {
	method := jwt.GetSigningMethod(algorithm)

	if _, ok := method.(*jwt.SigningMethodHMAC); !ok || method == nil {
		return nil, ErrUnknownAlgorithm
	}

	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Manager{
		secret: []byte(secret),
		method: method,
		ttl:    ttl,
	}, nil
}

func (m *Manager) TTL() time.Duration {
	return m.ttl
}

func (m *Manager) Issue(username string, userID int64, role string) (string, error) {
	now := time.Now().UTC()

	claims := Claims{
		Username: username,
		UserID:   userID,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token := jwt.NewWithClaims(m.method, claims)

	return token.SignedString(m.secret)
}

func (m *Manager) Validate(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&Claims{},
		func(t *jwt.Token) (interface{}, error) {
			return m.secret, nil
		},
		jwt.WithValidMethods([]string{m.method.Alg()}),
	)

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired

		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrInvalidSignature

		default:
			return nil, ErrMalformedToken
		}
	}

	claims, ok := token.Claims.(*Claims)

	if !ok || !token.Valid {
		return nil, ErrMalformedToken
	}

	// A token without an identity is useless downstream even when the
	// signature checks out.
	if claims.Username == "" || claims.UserID == 0 {
		return nil, ErrMalformedToken
	}

	return claims, nil
}
