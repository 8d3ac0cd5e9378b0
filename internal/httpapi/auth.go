package httpapi

import (
	"errors"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"gameshop/backend/internal/domain"
)

// SessionCookie names the cookie carrying the dashboard session token.
const SessionCookie = "pos_session"

// SessionManager authenticates the shared operator account and issues
// HS256 session tokens. The shop runs on one credential pair for the
// whole staff, so there is no user store behind it.
type SessionManager struct {
	secret       []byte
	tokenTTL     time.Duration
	operatorUser string
	passwordHash string
}

type sessionClaims struct {
	jwtlib.RegisteredClaims
	Role string `json:"role"`
}

func NewSessionManager(secret string, tokenTTL time.Duration, operatorUser, operatorPassword string) (*SessionManager, error) {
	if secret == "" {
		secret = "dev-change-me"
	}
	if tokenTTL <= 0 {
		tokenTTL = 8 * time.Hour
	}
	operatorUser = strings.TrimSpace(operatorUser)
	if operatorUser == "" {
		operatorUser = "admin"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(operatorPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &SessionManager{
		secret:       []byte(secret),
		tokenTTL:     tokenTTL,
		operatorUser: operatorUser,
		passwordHash: string(hash),
	}, nil
}

// Login checks the shared credentials and returns a signed token with
// its expiry. Wrong user and wrong password report the same error.
func (m *SessionManager) Login(req domain.LoginRequest) (string, time.Time, error) {
	username := strings.TrimSpace(req.Username)
	if username != m.operatorUser {
		return "", time.Time{}, errors.New("invalid credentials")
	}
	if bcrypt.CompareHashAndPassword([]byte(m.passwordHash), []byte(req.Password)) != nil {
		return "", time.Time{}, errors.New("invalid credentials")
	}

	expiresAt := time.Now().UTC().Add(m.tokenTTL)
	claims := sessionClaims{
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwtlib.NewNumericDate(time.Now().UTC()),
			ExpiresAt: jwtlib.NewNumericDate(expiresAt),
			Issuer:    "gameshop",
		},
		Role: "operator",
	}
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func (m *SessionManager) ParseToken(tokenStr string) (domain.Actor, error) {
	claims := &sessionClaims{}
	token, err := jwtlib.ParseWithClaims(tokenStr, claims, func(t *jwtlib.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	}, jwtlib.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return domain.Actor{}, errors.New("invalid or expired session")
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return domain.Actor{}, errors.New("invalid session subject")
	}
	return domain.Actor{Username: sub, Role: claims.Role}, nil
}
