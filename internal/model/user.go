package model

import "time"

// User represents an application user record as stored in the
// `users` table. Accounts are created on the first login coming
// from the external identity provider and refreshed on every
// subsequent login. The Role field gates access to the global
// settings endpoints.
//
// Fields:
//  ID           – primary key identifier of the user.
//  OpenID       – identity-provider identifier, unique per user.
//  Name         – display name supplied by the provider (nullable).
//  Email        – email supplied by the provider (nullable).
//  LoginMethod  – provider method used on the last login (nullable).
//  Role         – "user" or "admin".
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
//  LastSignedIn – timestamp of the last successful login.
type User struct {
	ID           uint64    // users.id
	OpenID       string    // users.open_id
	Name         string    // users.name
	Email        string    // users.email
	LoginMethod  string    // users.login_method
	Role         string    // users.role
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
	LastSignedIn time.Time // users.last_signed_in
}

// Roles stored in users.role and carried in the JWT "role" claim.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// RefreshToken models an entry in the `refresh_tokens` table. Each
// refresh token belongs to a user; only the SHA-256 hash of the raw
// token is persisted.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
