package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"math"
	"time"
)

var ErrNotFound = errors.New("repo: not found")

type Calculation struct {
	ID          int               `json:"id"`
	UserID      int               `json:"user_id"`
	Shape       string            `json:"shape"`
	Mode        string            `json:"mode"`
	Values      map[string]string `json:"values"`
	Volume      *float64          `json:"volume,omitempty"`
	SurfaceArea *float64          `json:"surface_area,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

type Repository interface {
	CreateUser(ctx context.Context, login, email, password string) (int, error)
	GetBylogin(ctx context.Context, login string) (int, string, error)

	SaveCalculation(ctx context.Context, c *Calculation) error
	ListCalculations(ctx context.Context, userID, limit int) ([]Calculation, error)
	GetCalculation(ctx context.Context, userID, id int) (Calculation, error)
	DeleteCalculation(ctx context.Context, userID, id int) error
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id       SERIAL PRIMARY KEY,
	login    TEXT NOT NULL UNIQUE,
	email    TEXT NOT NULL,
	password TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS calculations (
	id           SERIAL PRIMARY KEY,
	user_id      INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	shape        TEXT NOT NULL,
	mode         TEXT NOT NULL,
	input        JSONB NOT NULL,
	volume       DOUBLE PRECISION,
	surface_area DOUBLE PRECISION,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS calculations_user_idx ON calculations (user_id, created_at DESC);
`

var _ Repository = (*PostgresUserRepository)(nil)

type PostgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserDB(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) Migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, schema)
	return err
}

func (r *PostgresUserRepository) CreateUser(ctx context.Context, login, email, password string) (int, error) {
	var id int
	query := "INSERT INTO users (login, email, password) VALUES ($1, $2, $3) RETURNING id"
	err := r.db.QueryRowContext(ctx, query, login, email, password).Scan(&id)
	return id, err
}

// GetBylogin returns id 0 and no error when the login is unknown.
func (r *PostgresUserRepository) GetBylogin(ctx context.Context, login string) (int, string, error) {
	var id int
	var hash string

	query := "SELECT id, password FROM users WHERE login=$1"

	err := r.db.QueryRowContext(ctx, query, login).Scan(&id, &hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, "", nil
		}
		return 0, "", err
	}
	return id, hash, nil
}

func (r *PostgresUserRepository) SaveCalculation(ctx context.Context, c *Calculation) error {
	input, err := json.Marshal(c.Values)
	if err != nil {
		return err
	}
	query := `INSERT INTO calculations (user_id, shape, mode, input, volume, surface_area)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, query, c.UserID, c.Shape, c.Mode, string(input),
		nullable(c.Volume), nullable(c.SurfaceArea)).Scan(&c.ID, &c.CreatedAt)
}

func (r *PostgresUserRepository) ListCalculations(ctx context.Context, userID, limit int) ([]Calculation, error) {
	query := `SELECT id, user_id, shape, mode, input, volume, surface_area, created_at
		FROM calculations WHERE user_id=$1 ORDER BY created_at DESC, id DESC LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Calculation{}
	for rows.Next() {
		c, err := scanCalculation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PostgresUserRepository) GetCalculation(ctx context.Context, userID, id int) (Calculation, error) {
	query := `SELECT id, user_id, shape, mode, input, volume, surface_area, created_at
		FROM calculations WHERE user_id=$1 AND id=$2`
	c, err := scanCalculation(r.db.QueryRowContext(ctx, query, userID, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Calculation{}, ErrNotFound
	}
	return c, err
}

func (r *PostgresUserRepository) DeleteCalculation(ctx context.Context, userID, id int) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM calculations WHERE user_id=$1 AND id=$2", userID, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCalculation(s scanner) (Calculation, error) {
	var (
		c           Calculation
		input       []byte
		volume, sur sql.NullFloat64
	)
	if err := s.Scan(&c.ID, &c.UserID, &c.Shape, &c.Mode, &input, &volume, &sur, &c.CreatedAt); err != nil {
		return Calculation{}, err
	}
	if err := json.Unmarshal(input, &c.Values); err != nil {
		return Calculation{}, err
	}
	if volume.Valid {
		c.Volume = &volume.Float64
	}
	if sur.Valid {
		c.SurfaceArea = &sur.Float64
	}
	return c, nil
}

// nullable stores non-finite or missing numbers as NULL.
func nullable(x *float64) sql.NullFloat64 {
	if x == nil || math.IsNaN(*x) || math.IsInf(*x, 0) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *x, Valid: true}
}
