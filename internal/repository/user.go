package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/devfolio/devfolio-api/internal/model"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrDuplicateLoginID  = errors.New("login id already exists")
	ErrDuplicateNickname = errors.New("nickname already exists")
)

// UserRepository persists and retrieves user accounts.
//
// Uniqueness of login_id and nickname is enforced by database constraints,
// not just the service-level pre-checks: two concurrent signups with the
// same handle must end with exactly one success.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByLoginID(ctx context.Context, loginID string) (*model.User, error)
	GetByNickname(ctx context.Context, nickname string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id int64) error
}

// PostgresUserRepository is the PostgreSQL-backed UserRepository.
type PostgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

const userColumns = `id, login_id, nickname, password_hash, profile_image, created_at, updated_at`

// Create inserts a new user and fills in the generated ID and timestamps.
func (r *PostgresUserRepository) Create(ctx context.Context, user *model.User) error {
	query := `INSERT INTO users (login_id, nickname, password_hash, profile_image)
	          VALUES ($1, $2, $3, $4)
	          RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		user.LoginID, user.Nickname, user.PasswordHash, user.ProfileImage,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return translateUniqueViolation(err)
	}
	return nil
}

func (r *PostgresUserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *PostgresUserRepository) GetByLoginID(ctx context.Context, loginID string) (*model.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE login_id = $1`, loginID)
}

func (r *PostgresUserRepository) GetByNickname(ctx context.Context, nickname string) (*model.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE nickname = $1`, nickname)
}

func (r *PostgresUserRepository) getOne(ctx context.Context, query string, arg any) (*model.User, error) {
	user := &model.User{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.LoginID, &user.Nickname, &user.PasswordHash,
		&user.ProfileImage, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// Update persists the mutable profile fields and refreshes updated_at.
func (r *PostgresUserRepository) Update(ctx context.Context, user *model.User) error {
	query := `UPDATE users SET nickname = $1, profile_image = $2, updated_at = now()
	          WHERE id = $3
	          RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query, user.Nickname, user.ProfileImage, user.ID).
		Scan(&user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUserNotFound
		}
		return translateUniqueViolation(err)
	}
	return nil
}

// Delete removes the user row.
func (r *PostgresUserRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// translateUniqueViolation maps PostgreSQL unique-constraint violations
// (SQLSTATE 23505) onto the repository's sentinel errors.
func translateUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return err
	}

	switch pgErr.ConstraintName {
	case "users_login_id_key":
		return ErrDuplicateLoginID
	case "users_nickname_key":
		return ErrDuplicateNickname
	default:
		return err
	}
}
