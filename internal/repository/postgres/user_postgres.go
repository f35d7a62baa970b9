package postgres

import (
	"context"
	"database/sql"

	"posadmin/internal/model"
	"posadmin/internal/repository"
)

// UserPostgres is a PostgreSQL implementation of repository.UserRepository.
// Parameterized queries via database/sql; the nullable asset reference maps
// to the image_container/image_key column pair.
type UserPostgres struct {
	db *sql.DB
}

// NewUserPostgres creates a new UserPostgres repository.
func NewUserPostgres(db *sql.DB) *UserPostgres {
	return &UserPostgres{db: db}
}

var _ repository.UserRepository = (*UserPostgres)(nil)

const userColumns = `id, user_name, email, password_hash, auth_type, image_container, image_key, state, created_at`

func scanUser(row interface{ Scan(...any) error }) (*model.User, error) {
	var (
		u         model.User
		container sql.NullString
		key       sql.NullString
	)
	if err := row.Scan(
		&u.ID,
		&u.UserName,
		&u.Email,
		&u.PasswordHash,
		&u.AuthType,
		&container,
		&key,
		&u.State,
		&u.CreatedAt,
	); err != nil {
		return nil, err
	}
	if container.Valid && key.Valid {
		u.Image = &model.AssetRef{Container: container.String, Key: key.String}
	}
	return &u, nil
}

func imageColumns(u *model.User) (container, key sql.NullString) {
	if u.Image != nil {
		container = sql.NullString{String: u.Image.Container, Valid: true}
		key = sql.NullString{String: u.Image.Key, Valid: true}
	}
	return container, key
}

// Create inserts a new user row and returns the stored record.
func (r *UserPostgres) Create(ctx context.Context, u *model.User) (*model.User, error) {
	const q = `
		INSERT INTO users (user_name, email, password_hash, auth_type, image_container, image_key, state, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + userColumns
	container, key := imageColumns(u)
	row := r.db.QueryRowContext(ctx, q,
		u.UserName,
		u.Email,
		u.PasswordHash,
		u.AuthType,
		container,
		key,
		u.State,
		u.CreatedAt,
	)
	return scanUser(row)
}

// FindByID fetches a single user by identity.
func (r *UserPostgres) FindByID(ctx context.Context, id int) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, q, id))
}

// ListAll returns every user ordered by identity ascending.
func (r *UserPostgres) ListAll(ctx context.Context) ([]model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]model.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

// Update replaces the mutable fields of a user row. A vanished row surfaces
// as sql.ErrNoRows so a concurrent remove shows up as not-found.
func (r *UserPostgres) Update(ctx context.Context, u *model.User) error {
	const q = `
		UPDATE users
		SET user_name = $1, email = $2, password_hash = $3, auth_type = $4,
		    image_container = $5, image_key = $6, state = $7
		WHERE id = $8
	`
	container, key := imageColumns(u)
	res, err := r.db.ExecContext(ctx, q,
		u.UserName,
		u.Email,
		u.PasswordHash,
		u.AuthType,
		container,
		key,
		u.State,
		u.ID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a user by identity. Missing rows are ignored.
func (r *UserPostgres) Delete(ctx context.Context, id int) error {
	const q = `DELETE FROM users WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	_, _ = res.RowsAffected()
	return nil
}
