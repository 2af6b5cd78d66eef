package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/avrillon/dictee/internal/model"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Upsert creates the user on first login and refreshes the profile plus
// last_signed_in on every later one. The role is only forced to admin
// when the openId matches the configured owner; an existing admin is
// never demoted by a plain login.
func (r *UserRepo) Upsert(ctx context.Context, openID, name, email, loginMethod, role string) (model.User, error) {
	openID = strings.TrimSpace(openID)
	if role == "" {
		role = model.RoleUser
	}
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO users (open_id, name, email, login_method, role, last_signed_in)
		 VALUES (?,?,?,?,?,NOW())
		 ON DUPLICATE KEY UPDATE
		   name=VALUES(name), email=VALUES(email), login_method=VALUES(login_method),
		   role=IF(VALUES(role)='admin','admin',role), last_signed_in=NOW()`,
		openID, name, email, loginMethod, role)
	if err != nil {
		return model.User{}, err
	}
	return r.GetByOpenID(ctx, openID)
}

// GetByOpenID fetches a user by its identity-provider id.
func (r *UserRepo) GetByOpenID(ctx context.Context, openID string) (model.User, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		`SELECT id, open_id, COALESCE(name,''), COALESCE(email,''), COALESCE(login_method,''), role,
		        created_at, updated_at, last_signed_in
		 FROM users WHERE open_id=? LIMIT 1`, openID))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		`SELECT id, open_id, COALESCE(name,''), COALESCE(email,''), COALESCE(login_method,''), role,
		        created_at, updated_at, last_signed_in
		 FROM users WHERE id=? LIMIT 1`, id))
}

func (r *UserRepo) scanOne(row *sql.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.OpenID, &u.Name, &u.Email, &u.LoginMethod, &u.Role,
		&u.CreatedAt, &u.UpdatedAt, &u.LastSignedIn)
	if err == sql.ErrNoRows {
		return model.User{}, ErrNotFound
	}
	return u, err
}
