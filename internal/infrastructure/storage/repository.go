package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	_ "modernc.org/sqlite"

	"AdvocateDirectory/internal/config"
	"AdvocateDirectory/internal/domain"
	"AdvocateDirectory/internal/ports"
)

const advocatesTable = "advocates"

var advocateColumns = []string{
	"id",
	"first_name",
	"last_name",
	"city",
	"degree",
	"specialties",
	"years_of_experience",
	"phone_number",
	"created_at",
}

// ErrInvalidPhone is returned when a phone number has no digits or does not
// fit the integer phone_number column.
var ErrInvalidPhone = errors.New("invalid phone number")

// Repository reads and seeds advocates in Postgres or SQLite.
type Repository struct {
	db      *sql.DB
	driver  string
	builder sq.StatementBuilderType
}

var (
	_ ports.AdvocateRepository = (*Repository)(nil)
	_ ports.AdvocateSeeder     = (*Repository)(nil)
)

// Open connects to the configured store and verifies the connection.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Driver, err)
	}

	if cfg.Driver == config.DriverSQLite {
		// In-memory SQLite databases live per connection.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(10)
		db.SetConnMaxIdleTime(5 * time.Minute)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", cfg.Driver, err)
	}
	return db, nil
}

// NewRepository wires a sql.DB opened with the given driver name.
func NewRepository(db *sql.DB, driver string) *Repository {
	var placeholder sq.PlaceholderFormat = sq.Dollar
	if driver == config.DriverSQLite {
		placeholder = sq.Question
	}
	return &Repository{
		db:      db,
		driver:  driver,
		builder: sq.StatementBuilder.PlaceholderFormat(placeholder),
	}
}

// ListAdvocates returns every advocate row ordered by id.
func (r *Repository) ListAdvocates(ctx context.Context) ([]domain.Advocate, error) {
	if r.db == nil {
		return []domain.Advocate{}, nil
	}

	query, args, err := r.builder.
		Select(advocateColumns...).
		From(advocatesTable).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query advocates: %w", err)
	}

	result := make([]domain.Advocate, 0)
	for rows.Next() {
		var (
			a           domain.Advocate
			specialties pq.StringArray
			createdAt   timestamp
		)
		if err := rows.Scan(
			&a.ID,
			&a.FirstName,
			&a.LastName,
			&a.City,
			&a.Degree,
			&specialties,
			&a.YearsOfExperience,
			&a.PhoneNumber,
			&createdAt,
		); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan advocate: %w", err)
		}

		a.Specialties = []string(specialties)
		if a.Specialties == nil {
			a.Specialties = []string{}
		}
		a.CreatedAt = time.Time(createdAt).UTC()
		result = append(result, a)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("rows iteration: %w", rowsErr)
	}

	if closeErr := rows.Close(); closeErr != nil {
		return nil, fmt.Errorf("close rows: %w", closeErr)
	}

	return result, nil
}

// Ping verifies the store is reachable.
func (r *Repository) Ping(ctx context.Context) error {
	if r.db == nil {
		return fmt.Errorf("ping: no database configured")
	}
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// EnsureSchema creates the advocates table when it does not exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	ddl := postgresSchema
	if r.driver == config.DriverSQLite {
		ddl = sqliteSchema
	}
	if _, err := r.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create advocates table: %w", err)
	}
	return nil
}

// CountAdvocates returns the number of stored rows.
func (r *Repository) CountAdvocates(ctx context.Context) (int, error) {
	query, args, err := r.builder.Select("COUNT(*)").From(advocatesTable).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count: %w", err)
	}

	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count advocates: %w", err)
	}
	return n, nil
}

// InsertAdvocates writes rows in one statement and returns how many were
// inserted. IDs are assigned by the store. Rows are appended, never merged:
// inserting the same advocates twice stores them twice. Phone numbers are
// stored as their digits; a phone without digits rejects the whole batch.
func (r *Repository) InsertAdvocates(ctx context.Context, advocates []domain.Advocate) (int, error) {
	if len(advocates) == 0 {
		return 0, nil
	}

	phones := make([]int64, len(advocates))
	for i, a := range advocates {
		phone, err := phoneColumn(a.PhoneNumber)
		if err != nil {
			return 0, fmt.Errorf("advocate %s %s: %w", a.FirstName, a.LastName, err)
		}
		phones[i] = phone
	}

	insert := r.builder.
		Insert(advocatesTable).
		Columns("first_name", "last_name", "city", "degree", "specialties", "years_of_experience", "phone_number")
	for i, a := range advocates {
		specialties := a.Specialties
		if specialties == nil {
			specialties = []string{}
		}
		insert = insert.Values(
			a.FirstName,
			a.LastName,
			a.City,
			a.Degree,
			pq.Array(specialties),
			a.YearsOfExperience,
			phones[i],
		)
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build insert: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("insert advocates: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return len(advocates), nil
	}
	return int(n), nil
}

func phoneColumn(p domain.PhoneNumber) (int64, error) {
	digits := p.Digits()
	if digits == "" {
		return 0, fmt.Errorf("%w: %q has no digits", ErrInvalidPhone, string(p))
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidPhone, string(p), err)
	}
	return n, nil
}

const postgresSchema = `CREATE TABLE IF NOT EXISTS advocates (
    id                  SERIAL PRIMARY KEY,
    first_name          TEXT NOT NULL,
    last_name           TEXT NOT NULL,
    city                TEXT NOT NULL,
    degree              TEXT NOT NULL,
    specialties         TEXT[] NOT NULL DEFAULT '{}',
    years_of_experience INTEGER NOT NULL CHECK (years_of_experience >= 0),
    phone_number        BIGINT NOT NULL,
    created_at          TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// SQLite keeps specialties as the Postgres array literal so pq.StringArray
// scans both stores the same way.
const sqliteSchema = `CREATE TABLE IF NOT EXISTS advocates (
    id                  INTEGER PRIMARY KEY AUTOINCREMENT,
    first_name          TEXT NOT NULL,
    last_name           TEXT NOT NULL,
    city                TEXT NOT NULL,
    degree              TEXT NOT NULL,
    specialties         TEXT NOT NULL DEFAULT '{}',
    years_of_experience INTEGER NOT NULL CHECK (years_of_experience >= 0),
    phone_number        INTEGER NOT NULL,
    created_at          DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
)`
