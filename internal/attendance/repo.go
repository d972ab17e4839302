package attendance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"rollcall/internal/apperr"
	"rollcall/internal/store"
)

const recordColumns = "id, name, matric_no, course, submitted_at, active, latitude, longitude, accuracy, location_name"

// Repository is the attendance record store.
type Repository interface {
	Insert(ctx context.Context, rec Record) error
	GetByID(ctx context.Context, id string) (Record, error)
	GetByMatricNo(ctx context.Context, matricNo string) (*Record, error)
	List(ctx context.Context, f Filter) ([]Record, error)
	Counts(ctx context.Context) (Counts, error)
	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error
}

// PostgresRepository persists attendance records in Postgres.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a repo.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Insert writes a new record. The unique constraint on matric_no is the
// correctness backstop for concurrent submissions; the service's existence
// check is only a pre-check.
func (r *PostgresRepository) Insert(ctx context.Context, rec Record) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO attendance_records (`+recordColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`, rec.ID, rec.Name, rec.MatricNo, rec.Course, rec.SubmittedAt, rec.Active,
		rec.Latitude, rec.Longitude, rec.Accuracy, rec.LocationName)
	if err != nil {
		if store.IsUniqueViolation(err) {
			return apperr.ErrDuplicateRecord
		}
		return fmt.Errorf("insert record: %w", err)
	}
	return nil
}

// GetByID returns a single record by id.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (Record, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+recordColumns+` FROM attendance_records WHERE id = $1
	`, id)
	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, apperr.ErrNotFound
		}
		return Record{}, fmt.Errorf("select record: %w", err)
	}
	return rec, nil
}

// GetByMatricNo returns the record for a matric number or (nil, nil) when
// none exists.
func (r *PostgresRepository) GetByMatricNo(ctx context.Context, matricNo string) (*Record, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+recordColumns+` FROM attendance_records WHERE matric_no = $1
	`, matricNo)
	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select record: %w", err)
	}
	return &rec, nil
}

// List returns records newest first, with optional filters.
func (r *PostgresRepository) List(ctx context.Context, f Filter) ([]Record, error) {
	query := `SELECT ` + recordColumns + ` FROM attendance_records`
	args := []any{}
	clauses := []string{}
	if f.Course != "" {
		clauses = append(clauses, fmt.Sprintf("course ILIKE $%d", len(args)+1))
		args = append(args, "%"+f.Course+"%")
	}
	if f.ActiveOnly {
		clauses = append(clauses, "active = TRUE")
	}
	if len(clauses) > 0 {
		query += " WHERE " + joinClauses(clauses, " AND ")
	}
	query += " ORDER BY submitted_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()
	var res []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		res = append(res, rec)
	}
	return res, rows.Err()
}

// Counts returns aggregate totals in one query.
func (r *PostgresRepository) Counts(ctx context.Context) (Counts, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE active),
		       COUNT(*) FILTER (WHERE NOT active)
		FROM attendance_records
	`)
	var c Counts
	if err := row.Scan(&c.Total, &c.Active, &c.Inactive); err != nil {
		return Counts{}, fmt.Errorf("count records: %w", err)
	}
	return c, nil
}

// SetActive flips the active flag.
func (r *PostgresRepository) SetActive(ctx context.Context, id string, active bool) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE attendance_records SET active = $2 WHERE id = $1
	`, id, active)
	if err != nil {
		return fmt.Errorf("update record: %w", err)
	}
	return affectedOrNotFound(res)
}

// Delete permanently removes a record.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM attendance_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	return affectedOrNotFound(res)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (Record, error) {
	var rec Record
	err := row.Scan(&rec.ID, &rec.Name, &rec.MatricNo, &rec.Course, &rec.SubmittedAt,
		&rec.Active, &rec.Latitude, &rec.Longitude, &rec.Accuracy, &rec.LocationName)
	return rec, err
}

func affectedOrNotFound(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func joinClauses(parts []string, sep string) string {
	if len(parts) == 0 {
		return ""
	}
	out := parts[0]
	for i := 1; i < len(parts); i++ {
		out += sep + parts[i]
	}
	return out
}
