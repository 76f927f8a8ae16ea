package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"karinderya/internal/config"
	"karinderya/internal/database"
	"karinderya/internal/logger"
)

// ErrInvalidCredentials is returned for a bad username or password. The two
// cases are deliberately indistinguishable.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Service authenticates staff users and issues dashboard tokens
type Service struct {
	db     *database.DB
	secret []byte
	ttl    time.Duration
	logger *logger.Logger
}

// NewService creates a new auth service
func NewService(db *database.DB, cfg *config.Config, log *logger.Logger) *Service {
	ttl := time.Duration(cfg.Auth.TokenTTLMins) * time.Minute
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Service{
		db:     db,
		secret: []byte(cfg.Auth.JWTSecret),
		ttl:    ttl,
		logger: log,
	}
}

// Login checks the credentials and returns a signed token.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	var id int
	var storedUsername, passwordHash string
	err := s.db.QueryRow(ctx, database.GetStaffByUsernameSQL, username).
		Scan(&id, &storedUsername, &passwordHash)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up staff user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password)) != nil {
		return "", ErrInvalidCredentials
	}

	return s.issueToken(storedUsername)
}

// CreateStaff registers a staff user with a bcrypt-hashed password. It
// backs the create-staff bootstrap mode.
func (s *Service) CreateStaff(ctx context.Context, username, password string) (int, error) {
	hash, err := hashPassword(password)
	if err != nil {
		return 0, err
	}

	var id int
	err = s.db.QueryRow(ctx, database.InsertStaffUserSQL, username, hash).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create staff user: %w", err)
	}
	return id, nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func (s *Service) issueToken(username string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// verifyToken parses and validates a token, returning its subject.
func (s *Service) verifyToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidCredentials
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return "", ErrInvalidCredentials
	}
	return claims.Subject, nil
}
