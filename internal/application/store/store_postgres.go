package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"hirepath/internal/application/models"
	"hirepath/pkg/platform/sentinel"
)

const uniqueViolation = "23505"

const applicationColumns = `id, full_name, email, phone, cover_letter, salary_expectation,
	start_date, notice_period, is_remote, office_location, resume_path, created_at`

// PostgresStore persists applications in the applications table. Insertion
// order is the BIGSERIAL seq column.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed application store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, app *models.Application) (string, error) {
	if app == nil {
		return "", fmt.Errorf("append application: nil record")
	}
	record := app.Clone()
	if err := assignID(record); err != nil {
		return "", fmt.Errorf("generate application id: %w", err)
	}

	query := `INSERT INTO applications (` + applicationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := s.db.ExecContext(ctx, query,
		record.ID,
		record.FullName,
		record.Email,
		record.Phone,
		nullString(record.CoverLetter),
		record.SalaryExpectation,
		nullTime(record.StartDate),
		nullInt(record.NoticePeriod),
		nullBool(record.IsRemote),
		nullString(record.OfficeLocation),
		record.ResumePath,
		record.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return "", fmt.Errorf("append application %s: %w", record.ID, sentinel.ErrConflict)
		}
		return "", backendError("append application", err)
	}
	return record.ID, nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*models.Application, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id)
	app, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, backendError("get application", err)
	}
	return app, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]*models.Application, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+applicationColumns+` FROM applications ORDER BY seq ASC`)
	if err != nil {
		return nil, backendError("list applications", err)
	}
	defer rows.Close()

	var out []*models.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("scan application: %w", err)
		}
		out = append(out, app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate applications: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanApplication(row scanner) (*models.Application, error) {
	var (
		app            models.Application
		coverLetter    sql.NullString
		startDate      sql.NullTime
		noticePeriod   sql.NullInt32
		isRemote       sql.NullBool
		officeLocation sql.NullString
	)
	err := row.Scan(
		&app.ID,
		&app.FullName,
		&app.Email,
		&app.Phone,
		&coverLetter,
		&app.SalaryExpectation,
		&startDate,
		&noticePeriod,
		&isRemote,
		&officeLocation,
		&app.ResumePath,
		&app.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	app.CreatedAt = app.CreatedAt.UTC()
	if coverLetter.Valid {
		app.CoverLetter = &coverLetter.String
	}
	if startDate.Valid {
		t := startDate.Time.UTC()
		app.StartDate = &t
	}
	if noticePeriod.Valid {
		n := int(noticePeriod.Int32)
		app.NoticePeriod = &n
	}
	if isRemote.Valid {
		app.IsRemote = &isRemote.Bool
	}
	if officeLocation.Valid {
		app.OfficeLocation = &officeLocation.String
	}
	return &app, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func nullInt(n *int) sql.NullInt32 {
	if n == nil {
		return sql.NullInt32{}
	}
	return sql.NullInt32{Int32: int32(*n), Valid: true}
}

func nullBool(b *bool) sql.NullBool {
	if b == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *b, Valid: true}
}
