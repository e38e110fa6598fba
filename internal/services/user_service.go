package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/isdelr/social-be/internal/auth"
	"github.com/isdelr/social-be/internal/database"
	"github.com/isdelr/social-be/internal/models"
)

var (
	// ErrInvalidCredentials is returned for both unknown users and wrong passwords.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrCredentialsRequired means username or password was empty.
	ErrCredentialsRequired = errors.New("username and password required")
	// ErrUserExists means the username is already taken.
	ErrUserExists = errors.New("username already taken")
	// ErrUserNotFound means no user matched the lookup.
	ErrUserNotFound = errors.New("user not found")
)

// dummyHash is compared against when the username is unknown, so that an
// unknown user costs the same bcrypt round as a wrong password.
var dummyHash = sync.OnceValue(func() string {
	hash, err := auth.HashPassword("placeholder-password-never-matches")
	if err != nil {
		panic(fmt.Sprintf("services: cannot build dummy hash: %v", err))
	}
	return hash
})

// TokenIssuer issues bearer tokens for authenticated users.
type TokenIssuer interface {
	Issue(userID int64, username string) (string, error)
}

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	GetUserByID(ctx context.Context, id int64) (models.User, error)
	GetUserByUsername(ctx context.Context, username string) (models.User, error)
	CreateUser(ctx context.Context, username, password string) (models.User, error)
	Login(ctx context.Context, username, password string) (string, error)
}

// UserService provides business logic for credentials and login.
type UserService struct {
	db     *database.DB
	tokens TokenIssuer
}

// NewUserService creates a new UserService.
func NewUserService(db *database.DB, tokens TokenIssuer) *UserService {
	return &UserService{db: db, tokens: tokens}
}

// GetUserByID retrieves a single user by their ID, without the password hash.
func (s *UserService) GetUserByID(ctx context.Context, id int64) (models.User, error) {
	var user models.User
	row := s.db.QueryRowContext(ctx, s.db.Rebind("SELECT id, username, created_at FROM users WHERE id = ?"), id)
	err := row.Scan(&user.ID, &user.Username, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, fmt.Errorf("%w: id %d", ErrUserNotFound, id)
		}
		return models.User{}, err
	}
	return user, nil
}

// GetUserByUsername retrieves a single user by exact username, including the password hash.
func (s *UserService) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	var user models.User
	row := s.db.QueryRowContext(ctx, s.db.Rebind("SELECT id, username, password_hash, created_at FROM users WHERE username = ?"), username)
	err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, fmt.Errorf("%w: %s", ErrUserNotFound, username)
		}
		return models.User{}, err
	}
	return user, nil
}

// CreateUser creates a new user, hashing their password.
func (s *UserService) CreateUser(ctx context.Context, username, password string) (models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return models.User{}, ErrCredentialsRequired
	}

	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, err
	}

	var id int64
	err = s.db.QueryRowContext(ctx,
		s.db.Rebind("INSERT INTO users (username, password_hash) VALUES (?, ?) RETURNING id"),
		username, hashedPassword,
	).Scan(&id)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return models.User{}, fmt.Errorf("%w: %s", ErrUserExists, username)
		}
		return models.User{}, err
	}

	return s.GetUserByID(ctx, id)
}

// Login verifies a user's credentials and issues a bearer token.
// Unknown users and wrong passwords both yield ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		return "", ErrCredentialsRequired
	}

	user, err := s.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			auth.CheckPassword(dummyHash(), password)
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return "", ErrInvalidCredentials
	}

	return s.tokens.Issue(user.ID, user.Username)
}
