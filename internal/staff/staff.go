package staff

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bekzodm/oshxona/internal/orders"
)

var (
	ErrNotFound           = errors.New("staff member not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidRole        = errors.New("unknown staff role")
)

// Staff is an admin, chef or courier account. Only the bcrypt hash is
// ever stored.
type Staff struct {
	ID           string      `json:"id"`
	Username     string      `json:"username"`
	PasswordHash string      `json:"-"`
	Role         orders.Role `json:"role"`
	Available    bool        `json:"available"`
	CreatedAt    time.Time   `json:"created_at"`
}

type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) Create(ctx context.Context, username, password string, role orders.Role) (Staff, error) {
	if !role.Valid() {
		return Staff{}, ErrInvalidRole
	}
	hash, err := HashPassword(password)
	if err != nil {
		return Staff{}, err
	}

	st := Staff{ID: uuid.NewString(), Username: username, PasswordHash: hash, Role: role, Available: true}
	err = r.DB.QueryRow(ctx, `
		INSERT INTO staff(id, username, password_hash, role, available)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (username) DO NOTHING
		RETURNING created_at`,
		st.ID, st.Username, st.PasswordHash, st.Role, st.Available,
	).Scan(&st.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Staff{}, ErrUsernameTaken
	}
	if err != nil {
		return Staff{}, err
	}
	return st, nil
}

func (r *Repo) GetByUsername(ctx context.Context, username string) (Staff, error) {
	var st Staff
	err := r.DB.QueryRow(ctx, `
		SELECT id, username, password_hash, role, available, created_at
		FROM staff WHERE username=$1`, username,
	).Scan(&st.ID, &st.Username, &st.PasswordHash, &st.Role, &st.Available, &st.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Staff{}, ErrNotFound
	}
	if err != nil {
		return Staff{}, err
	}
	return st, nil
}

func (r *Repo) SetAvailable(ctx context.Context, id string, available bool) error {
	ct, err := r.DB.Exec(ctx, `UPDATE staff SET available=$2 WHERE id=$1`, id, available)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Login verifies credentials against the stored bcrypt hash; plaintext
// comparison is never done.
func (r *Repo) Login(ctx context.Context, username, password string) (Staff, error) {
	st, err := r.GetByUsername(ctx, username)
	if errors.Is(err, ErrNotFound) {
		return Staff{}, ErrInvalidCredentials
	}
	if err != nil {
		return Staff{}, err
	}
	if !CheckPassword(st.PasswordHash, password) {
		return Staff{}, ErrInvalidCredentials
	}
	return st, nil
}
