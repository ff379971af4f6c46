// Package auth implements account registration, login, and the bearer-token
// middleware guarding the API. Tokens are HS256 JWTs whose subject is the
// user's typeid.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"github.com/arcboard/arcboard/backend-go/internal/store"
	"github.com/arcboard/arcboard/backend-go/internal/typeid"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
)

const (
	bcryptCost = 12
	tokenTTL   = 24 * time.Hour
)

// Service issues and validates credentials against the user store.
type Service struct {
	store     *store.Store
	jwtSecret []byte
}

func NewService(st *store.Store, jwtSecret string) *Service {
	return &Service{store: st, jwtSecret: []byte(jwtSecret)}
}

// User is the public profile shape returned to clients; the password hash
// never leaves this package.
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

// AuthResult pairs a fresh token with the user it authenticates.
type AuthResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Register creates an account and logs it in. A duplicate email maps to
// ErrEmailTaken.
func (s *Service) Register(ctx context.Context, email, password, displayName string) (*AuthResult, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	row, err := s.store.CreateUser(ctx, store.User{
		ID:          typeid.NewUserID(),
		Email:       email,
		Password:    string(hash),
		DisplayName: displayName,
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return s.authResult(row)
}

// Login verifies the password and issues a token. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	row, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(row.Password), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	return s.authResult(row)
}

// ValidateToken parses and verifies a token and returns its user id.
func (s *Service) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return "", fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", errors.New("invalid token")
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", errors.New("invalid token subject")
	}
	return sub, nil
}

// GetUser loads a public profile by id.
func (s *Service) GetUser(ctx context.Context, userID string) (*User, error) {
	row, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	u := publicUser(row)
	return &u, nil
}

func (s *Service) authResult(row store.User) (*AuthResult, error) {
	token, err := s.issueToken(row.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: publicUser(row)}, nil
}

func (s *Service) issueToken(userID string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID,
		"iat": now.Unix(),
		"exp": now.Add(tokenTTL).Unix(),
	})
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func publicUser(row store.User) User {
	return User{ID: row.ID, Email: row.Email, DisplayName: row.DisplayName}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
