package attendance

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rollcall/internal/apperr"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewPostgresRepository(db), mock, db
}

func sampleRecord() Record {
	return Record{
		ID:          "rec-1",
		Name:        "Jane Doe",
		MatricNo:    "U001",
		Course:      "CS101",
		SubmittedAt: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
		Active:      true,
	}
}

func TestInsert_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rec := sampleRecord()
	mock.ExpectExec(`INSERT INTO attendance_records`).
		WithArgs(rec.ID, rec.Name, rec.MatricNo, rec.Course, rec.SubmittedAt, rec.Active,
			nil, nil, nil, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Insert(context.Background(), rec))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsert_UniqueViolation(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO attendance_records`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "attendance_records_matric_no_key"})

	err := repo.Insert(context.Background(), sampleRecord())
	assert.ErrorIs(t, err, apperr.ErrDuplicateRecord)
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .+ FROM attendance_records WHERE id`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestGetByMatricNo_Absent(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .+ FROM attendance_records WHERE matric_no`).
		WithArgs("U404").
		WillReturnError(sql.ErrNoRows)

	rec, err := repo.GetByMatricNo(context.Background(), "U404")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func recordRows(recs ...Record) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"id", "name", "matric_no", "course", "submitted_at", "active",
		"latitude", "longitude", "accuracy", "location_name",
	})
	for _, r := range recs {
		rows.AddRow(r.ID, r.Name, r.MatricNo, r.Course, r.SubmittedAt, r.Active,
			r.Latitude, r.Longitude, r.Accuracy, r.LocationName)
	}
	return rows
}

func TestList_NoFilter(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .+ FROM attendance_records ORDER BY submitted_at DESC`).
		WillReturnRows(recordRows(sampleRecord()))

	records, err := repo.List(context.Background(), Filter{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "U001", records[0].MatricNo)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestList_CourseFilter(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .+ FROM attendance_records WHERE course ILIKE \$1 ORDER BY submitted_at DESC`).
		WithArgs("%CS%").
		WillReturnRows(recordRows())

	records, err := repo.List(context.Background(), Filter{Course: "CS"})
	require.NoError(t, err)
	assert.Empty(t, records)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCounts(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT`).
		WillReturnRows(sqlmock.NewRows([]string{"count", "active", "inactive"}).AddRow(5, 3, 2))

	counts, err := repo.Counts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Counts{Total: 5, Active: 3, Inactive: 2}, counts)
}

func TestSetActive_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE attendance_records SET active`).
		WithArgs("missing", false).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SetActive(context.Background(), "missing", false)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestDelete_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM attendance_records WHERE id`).
		WithArgs("rec-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "rec-1"))
}

func TestDelete_StorageFailure(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM attendance_records WHERE id`).
		WillReturnError(errors.New("connection reset"))

	err := repo.Delete(context.Background(), "rec-1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, apperr.ErrNotFound)
}
