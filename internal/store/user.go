package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/welcomedesk/userservice/internal/db"
	"github.com/welcomedesk/userservice/types"
)

// UserRepository handles persistence for users.
type UserRepository struct {
	db     *sql.DB
	driver string
}

func NewUserRepository(conn *sql.DB, driver string) *UserRepository {
	return &UserRepository{db: conn, driver: driver}
}

// GetByID returns the user with the given id. A missing row is reported
// through the boolean, not as an error.
func (r *UserRepository) GetByID(ctx context.Context, id int) (types.User, bool, error) {
	const query = `
		SELECT id, name, email, created_at, updated_at
		FROM users
		WHERE id = ?`
	var user types.User
	err := r.db.QueryRowContext(ctx, r.rebind(query), id).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.User{}, false, nil
		}
		return types.User{}, false, wrap("get user", err)
	}
	return user, true, nil
}

func (r *UserRepository) List(ctx context.Context) ([]types.User, error) {
	const query = `
		SELECT id, name, email, created_at, updated_at
		FROM users
		ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, wrap("list users", err)
	}
	defer rows.Close()

	users := []types.User{}
	for rows.Next() {
		var user types.User
		if err := rows.Scan(
			&user.ID,
			&user.Name,
			&user.Email,
			&user.CreatedAt,
			&user.UpdatedAt,
		); err != nil {
			return nil, wrap("list users", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("list users", err)
	}
	return users, nil
}

// Create inserts user and returns it with the assigned id. The stored email
// is normalized, so callers should use the returned value.
func (r *UserRepository) Create(ctx context.Context, user types.User) (types.User, error) {
	now := time.Now().UTC()
	user.Name = strings.TrimSpace(user.Name)
	user.Email = normalizeEmail(user.Email)
	user.CreatedAt = now
	user.UpdatedAt = now

	const query = `
		INSERT INTO users (name, email, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		r.rebind(query),
		user.Name,
		user.Email,
		user.CreatedAt,
		user.UpdatedAt,
	).Scan(&user.ID); err != nil {
		return types.User{}, wrap("create user", err)
	}
	return user, nil
}

func (r *UserRepository) Update(ctx context.Context, user types.User) (types.User, error) {
	user.Name = strings.TrimSpace(user.Name)
	user.Email = normalizeEmail(user.Email)
	user.UpdatedAt = time.Now().UTC()

	const query = `
		UPDATE users
		SET name = ?,
			email = ?,
			updated_at = ?
		WHERE id = ?`
	result, err := r.db.ExecContext(
		ctx,
		r.rebind(query),
		user.Name,
		user.Email,
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		return types.User{}, wrap("update user", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.User{}, wrap("update user", err)
	}
	if affected == 0 {
		return types.User{}, wrap("update user", ErrNotFound)
	}
	return user, nil
}

func (r *UserRepository) rebind(query string) string {
	return db.Rebind(r.driver, query)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
