package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"foodgram/internal/apperr"
	"foodgram/internal/database"
)

const profileColumns = `u.email, u.id, u.username, u.first_name, u.last_name,
	EXISTS (SELECT 1 FROM subscriptions s WHERE s.user_id = ? AND s.author_id = u.id) AS is_subscribed`

// Repository handles persistence of users and subscriptions.
type Repository struct {
	db sqlx.ExtContext
}

// NewRepository creates a new user repository.
func NewRepository(db sqlx.ExtContext) *Repository {
	return &Repository{db: db}
}

// Create inserts u and sets its ID.
func (r *Repository) Create(ctx context.Context, u *User) error {
	u.DateJoined = time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (email, username, first_name, last_name, password_hash, date_joined)
		VALUES (?, ?, ?, ?, ?, ?)`,
		u.Email, u.Username, u.FirstName, u.LastName, u.PasswordHash, u.DateJoined.Format("2006-01-02 15:04:05.000000"),
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return apperr.Rejected("A user with that email or username already exists.")
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read user id: %w", err)
	}
	u.ID = id
	return nil
}

// GetByID returns the user with id.
func (r *Repository) GetByID(ctx context.Context, id int64) (*User, error) {
	return r.getOne(ctx, `SELECT * FROM users WHERE id = ?`, id)
}

// GetByEmail returns the user with the given email.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.getOne(ctx, `SELECT * FROM users WHERE email = ?`, email)
}

func (r *Repository) getOne(ctx context.Context, query string, arg any) (*User, error) {
	var u User
	if err := sqlx.GetContext(ctx, r.db, &u, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("User not found.")
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

// Exists reports whether a user with id exists.
func (r *Repository) Exists(ctx context.Context, id int64) (bool, error) {
	var ok bool
	if err := sqlx.GetContext(ctx, r.db, &ok, `SELECT EXISTS (SELECT 1 FROM users WHERE id = ?)`, id); err != nil {
		return false, fmt.Errorf("failed to check user: %w", err)
	}
	return ok, nil
}

// Taken reports which of email and username are already registered.
func (r *Repository) Taken(ctx context.Context, email, username string) (emailTaken, usernameTaken bool, err error) {
	row := struct {
		Email    bool `db:"email"`
		Username bool `db:"username"`
	}{}
	err = sqlx.GetContext(ctx, r.db, &row, `SELECT
		EXISTS (SELECT 1 FROM users WHERE email = ?) AS email,
		EXISTS (SELECT 1 FROM users WHERE username = ?) AS username`, email, username)
	if err != nil {
		return false, false, fmt.Errorf("failed to check registration: %w", err)
	}
	return row.Email, row.Username, nil
}

// UpdatePassword replaces the stored password hash.
func (r *Repository) UpdatePassword(ctx context.Context, id int64, hash string) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE users SET password_hash = ? WHERE id = ?`, hash, id); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// Delete removes the user; owned rows go with it.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// Profile returns user id as seen by viewerID (0 for anonymous).
func (r *Repository) Profile(ctx context.Context, viewerID, id int64) (*Profile, error) {
	var p Profile
	err := sqlx.GetContext(ctx, r.db, &p, `SELECT `+profileColumns+` FROM users u WHERE u.id = ?`, viewerID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("User not found.")
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &p, nil
}

// Profiles returns the profiles of ids keyed by user id.
func (r *Repository) Profiles(ctx context.Context, viewerID int64, ids []int64) (map[int64]Profile, error) {
	out := make(map[int64]Profile, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	query, args, err := sqlx.In(`SELECT `+profileColumns+` FROM users u WHERE u.id IN (?)`, viewerID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build profiles query: %w", err)
	}
	var rows []Profile
	if err := sqlx.SelectContext(ctx, r.db, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	for _, p := range rows {
		out[p.ID] = p
	}
	return out, nil
}

// ListProfiles returns one page of users ordered by id.
func (r *Repository) ListProfiles(ctx context.Context, viewerID int64, limit, offset int) ([]Profile, error) {
	var rows []Profile
	err := sqlx.SelectContext(ctx, r.db, &rows,
		`SELECT `+profileColumns+` FROM users u ORDER BY u.id LIMIT ? OFFSET ?`, viewerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return rows, nil
}

// Count returns the number of registered users.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := sqlx.GetContext(ctx, r.db, &n, `SELECT COUNT(*) FROM users`); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}

// Subscribe stores a (user, author) follow row. Constraint failures come
// back as validation errors.
func (r *Repository) Subscribe(ctx context.Context, userID, authorID int64) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO subscriptions (user_id, author_id) VALUES (?, ?)`, userID, authorID)
	switch {
	case err == nil:
		return nil
	case database.IsUniqueViolation(err):
		return apperr.Rejected("You are already subscribed to this author")
	case database.IsCheckViolation(err):
		return apperr.Rejected("You cannot subscribe to yourself")
	default:
		return fmt.Errorf("failed to insert subscription: %w", err)
	}
}

// Unsubscribe deletes the follow row and reports whether one existed.
func (r *Repository) Unsubscribe(ctx context.Context, userID, authorID int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM subscriptions WHERE user_id = ? AND author_id = ?`, userID, authorID)
	if err != nil {
		return false, fmt.Errorf("failed to delete subscription: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n > 0, nil
}

// IsSubscribed reports whether userID follows authorID.
func (r *Repository) IsSubscribed(ctx context.Context, userID, authorID int64) (bool, error) {
	var ok bool
	err := sqlx.GetContext(ctx, r.db, &ok,
		`SELECT EXISTS (SELECT 1 FROM subscriptions WHERE user_id = ? AND author_id = ?)`, userID, authorID)
	if err != nil {
		return false, fmt.Errorf("failed to check subscription: %w", err)
	}
	return ok, nil
}

// SubscribedAuthors returns one page of the authors userID follows, in
// subscription order.
func (r *Repository) SubscribedAuthors(ctx context.Context, userID int64, limit, offset int) ([]Profile, error) {
	var rows []Profile
	err := sqlx.SelectContext(ctx, r.db, &rows, `SELECT `+profileColumns+`
		FROM subscriptions f
		JOIN users u ON u.id = f.author_id
		WHERE f.user_id = ?
		ORDER BY f.id
		LIMIT ? OFFSET ?`, userID, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	return rows, nil
}

// CountSubscriptions returns how many authors userID follows.
func (r *Repository) CountSubscriptions(ctx context.Context, userID int64) (int, error) {
	var n int
	if err := sqlx.GetContext(ctx, r.db, &n, `SELECT COUNT(*) FROM subscriptions WHERE user_id = ?`, userID); err != nil {
		return 0, fmt.Errorf("failed to count subscriptions: %w", err)
	}
	return n, nil
}
