package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"localshop/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user with this email or contact already exists")
)

// uniqueViolation is the PostgreSQL SQLSTATE for a unique constraint failure
const uniqueViolation = "23505"

// UserRepository defines the interface for user data access
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByContact(ctx context.Context, contact string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

const userColumns = `id, name, contact, email, password_hash, created_at, updated_at`

type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new instance of UserRepository
func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts a new user into the database using parameterized queries
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, name, contact, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		user.ID,
		user.Name,
		user.Contact,
		user.Email,
		user.PasswordHash,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		// Duplicate email or contact
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// FindByEmail retrieves a user by email using parameterized queries
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, "email", email)
}

// FindByContact retrieves a user by phone/contact handle
func (r *userRepository) FindByContact(ctx context.Context, contact string) (*domain.User, error) {
	return r.findOne(ctx, "contact", contact)
}

// FindByID retrieves a user by ID using parameterized queries
func (r *userRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, "id", id)
}

// findOne looks a user up by a fixed, trusted column name
func (r *userRepository) findOne(ctx context.Context, column, value string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + column + ` = $1`

	user := &domain.User{}
	var contact sql.NullString
	err := r.db.QueryRowContext(ctx, query, value).Scan(
		&user.ID,
		&user.Name,
		&contact,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user by %s: %w", column, err)
	}

	user.Contact = contact.String
	return user, nil
}
