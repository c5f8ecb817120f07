// Package memorials is the direct Postgres row store for the "memorials"
// table, used when the client is pointed at a database instead of the REST
// gateway.
package memorials

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/memoria/internal/client/client"
	"github.com/dmitrijs2005/memoria/internal/client/models"
	"github.com/dmitrijs2005/memoria/internal/dbx"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
)

var _ client.RowStore = (*PostgresRepository)(nil)

const memorialColumns = `id, name, birth_year, death_year, description, profile_image, created_by, created_at`

// Postgres error codes mapped onto client errors.
const (
	codeInvalidText      = "22P02"
	codeUniqueViolation  = "23505"
	codeCheckViolation   = "23514"
	codeInsufficientPriv = "42501"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// OpenDB opens a pgx-backed pool for dsn and checks connectivity.
func OpenDB(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %v", client.ErrUnavailable, err)
	}
	return db, nil
}

func (r *PostgresRepository) SelectMemorials(ctx context.Context, q models.MemorialQuery) ([]models.MemorialRow, error) {
	var (
		where []string
		args  []any
	)
	if q.ID != "" {
		args = append(args, q.ID)
		where = append(where, fmt.Sprintf("id = $%d", len(args)))
	}
	if q.CreatedBy != "" {
		args = append(args, q.CreatedBy)
		where = append(where, fmt.Sprintf("created_by = $%d", len(args)))
	}

	query := `SELECT ` + memorialColumns + ` FROM memorials`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, ` AND `)
	}
	query += ` ORDER BY created_at DESC`
	if q.Limit > 0 {
		args = append(args, q.Limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		// a malformed id cannot match any row
		if pgCode(err) == codeInvalidText {
			return []models.MemorialRow{}, nil
		}
		return nil, mapError(err)
	}
	defer rows.Close()

	result := []models.MemorialRow{}
	for rows.Next() {
		row, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return result, nil
}

// InsertMemorial inserts row inside a transaction that carries the owner as
// the JWT subject, so row-level security policies written against
// auth.uid() apply the same way they do behind the REST gateway.
func (r *PostgresRepository) InsertMemorial(ctx context.Context, row models.MemorialRow) (*models.MemorialRow, error) {
	out := row
	var createdAt time.Time

	err := dbx.WithClaimTx(ctx, r.db, row.CreatedBy, func(ctx context.Context, tx dbx.DBTX) error {
		query :=
			`INSERT INTO memorials (name, birth_year, death_year, description, profile_image, created_by)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 RETURNING id, created_at
			`
		return tx.QueryRowContext(ctx, query,
			row.Name, row.BirthYear, row.DeathYear,
			nullString(row.Description), nullString(row.ProfileImage), row.CreatedBy,
		).Scan(&out.ID, &createdAt)
	})
	if err != nil {
		return nil, mapError(err)
	}

	out.CreatedAt = createdAt.UTC().Format(time.RFC3339Nano)
	return &out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRow(s scanner) (models.MemorialRow, error) {
	var (
		row          models.MemorialRow
		description  sql.NullString
		profileImage sql.NullString
		createdAt    time.Time
	)
	err := s.Scan(&row.ID, &row.Name, &row.BirthYear, &row.DeathYear,
		&description, &profileImage, &row.CreatedBy, &createdAt)
	if err != nil {
		return row, fmt.Errorf("db error: %w", err)
	}

	if description.Valid {
		row.Description = &description.String
	}
	if profileImage.Valid {
		row.ProfileImage = &profileImage.String
	}
	row.CreatedAt = createdAt.UTC().Format(time.RFC3339Nano)
	return row, nil
}

func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// mapError keeps the database message and attaches the matching client
// sentinel where one exists.
func mapError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return fmt.Errorf("db error: %w", err)
	}

	var status int
	switch pgErr.Code {
	case codeUniqueViolation:
		status = http.StatusConflict
	case codeInsufficientPriv:
		status = http.StatusForbidden
	case codeCheckViolation:
		status = http.StatusBadRequest
	}
	return client.NewAPIError(status, pgErr.Code, pgErr.Message)
}
