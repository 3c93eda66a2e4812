package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"yatube/internal/models"
)

var (
	ErrUsernameExists     = errors.New("a user with that username already exists")
	ErrEmptyUsername      = errors.New("username must not be empty")
	ErrLongUsername       = errors.New("username must be at most 150 characters")
	ErrInvalidUsername    = errors.New("username may contain only letters, digits and @/./+/-/_")
	ErrInvalidEmail       = errors.New("enter a valid email address")
	ErrShortPassword      = errors.New("password must be at least 6 characters")
	ErrLongPassword       = errors.New("password must be at most 72 bytes")
	ErrPasswordHashFailed = errors.New("failed to hash password")
	ErrUserCreateFailed   = errors.New("failed to create user")
	ErrUserDeleteFailed   = errors.New("failed to delete user")
	ErrUserNotFound       = errors.New("user not found")
	ErrIncorrectPassword  = errors.New("incorrect password")
)

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

type UserService struct {
	db *Database
}

func NewUserService(db *Database) *UserService {
	return &UserService{db: db}
}

func (us *UserService) CreateUser(ctx context.Context, username, email, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if err := us.validateUserData(username, email, password); err != nil {
		return nil, err
	}

	if err := us.checkUserUniqueness(ctx, username); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPasswordHashFailed, err)
	}

	query := `INSERT INTO users (username, email, password, created)
			  VALUES (?, ?, ?, ?) RETURNING id`

	user := models.User{
		Username: username,
		Email:    email,
		Password: hashedPassword,
		Created:  time.Now(),
	}

	err = us.db.DBConn.QueryRowContext(ctx, query, username, email, hashedPassword, toUnix(user.Created)).Scan(&user.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUserCreateFailed, err)
	}

	return &user, nil
}

// VerifyUser checks the password and returns the matching user.
func (us *UserService) VerifyUser(ctx context.Context, username, password string) (*models.User, error) {
	user, err := us.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword(user.Password, []byte(password)); err != nil {
		return nil, ErrIncorrectPassword
	}

	return user, nil
}

func (us *UserService) GetUser(ctx context.Context, id int) (*models.User, error) {
	query := `SELECT id, username, email, password, created FROM users WHERE id = ?`
	return us.scanUser(us.db.DBConn.QueryRowContext(ctx, query, id))
}

func (us *UserService) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT id, username, email, password, created FROM users WHERE username = ?`
	return us.scanUser(us.db.DBConn.QueryRowContext(ctx, query, username))
}

// DeleteUser removes the account. Its posts and sessions go with it.
func (us *UserService) DeleteUser(ctx context.Context, username string) error {
	result, err := us.db.DBConn.ExecContext(ctx, `DELETE FROM users WHERE username = ?`, username)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUserDeleteFailed, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

func (us *UserService) scanUser(row *sql.Row) (*models.User, error) {
	var user models.User
	var created int64
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.Password, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	user.Created = fromUnix(created)
	return &user, nil
}

func (us *UserService) checkUserUniqueness(ctx context.Context, username string) error {
	var exists int
	err := us.db.DBConn.QueryRowContext(ctx, `SELECT 1 FROM users WHERE username = ?`, username).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err == nil {
		return ErrUsernameExists
	}
	return fmt.Errorf("failed to check username uniqueness: %v", err)
}

func (us *UserService) validateUserData(username, email, password string) error {
	if err := us.validateUsername(username); err != nil {
		return err
	}
	if err := us.validateEmail(email); err != nil {
		return err
	}
	return us.validatePassword(password)
}

func (us *UserService) validateUsername(username string) error {
	if len(username) == 0 {
		return ErrEmptyUsername
	}
	if len([]rune(username)) > 150 {
		return ErrLongUsername
	}
	if !usernamePattern.MatchString(username) {
		return ErrInvalidUsername
	}
	return nil
}

// Email is optional.
func (us *UserService) validateEmail(email string) error {
	if email == "" {
		return nil
	}
	if len(email) > 254 || !strings.Contains(email, "@") {
		return ErrInvalidEmail
	}
	return nil
}

func (us *UserService) validatePassword(password string) error {
	if len(password) < 6 {
		return ErrShortPassword
	}
	// bcrypt ignores everything past 72 bytes.
	if len(password) > 72 {
		return ErrLongPassword
	}
	return nil
}
