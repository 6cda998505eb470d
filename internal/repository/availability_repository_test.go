package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centroforma/forma-api/internal/models"
)

func newAvailabilityMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func availabilityRows(windows ...models.AvailabilityWindow) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "trainer_id", "date", "start_time", "end_time", "created_at"})
	for _, w := range windows {
		rows.AddRow(w.ID, w.TrainerID, w.Date, w.StartTime, w.EndTime, w.CreatedAt)
	}
	return rows
}

func TestAvailabilityRepositoryListByTrainerWithRange(t *testing.T) {
	db, mock, cleanup := newAvailabilityMock(t)
	defer cleanup()
	repo := NewAvailabilityRepository(db)

	from := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC)
	now := time.Now()

	mock.ExpectQuery(`SELECT .+ FROM availability_windows WHERE trainer_id = \$1 AND date >= \$2 AND date <= \$3 ORDER BY date ASC, start_time ASC`).
		WithArgs("t1", from, to).
		WillReturnRows(availabilityRows(models.AvailabilityWindow{
			ID: "w1", TrainerID: "t1", Date: from, StartTime: "09:00", EndTime: "12:00", CreatedAt: now,
		}))

	windows, err := repo.ListByTrainer(context.Background(), models.AvailabilityFilter{
		TrainerID: "t1", DateFrom: &from, DateTo: &to,
	})
	require.NoError(t, err)
	require.Len(t, windows, 1)
	assert.Equal(t, "w1", windows[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAvailabilityRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newAvailabilityMock(t)
	defer cleanup()
	repo := NewAvailabilityRepository(db)

	mock.ExpectExec("INSERT INTO availability_windows").
		WithArgs(sqlmock.AnyArg(), "t1", sqlmock.AnyArg(), "09:00", "12:00", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	window := &models.AvailabilityWindow{
		TrainerID: "t1",
		Date:      time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		StartTime: "09:00",
		EndTime:   "12:00",
	}
	require.NoError(t, repo.Create(context.Background(), window))
	assert.NotEmpty(t, window.ID)
	assert.False(t, window.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAvailabilityRepositoryCreateBatchRollsBack(t *testing.T) {
	db, mock, cleanup := newAvailabilityMock(t)
	defer cleanup()
	repo := NewAvailabilityRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO availability_windows").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO availability_windows").
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := repo.CreateBatch(context.Background(), []models.AvailabilityWindow{
		{TrainerID: "t1", Date: time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC), StartTime: "09:00", EndTime: "12:00"},
		{TrainerID: "t1", Date: time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC), StartTime: "09:00", EndTime: "12:00"},
	})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAvailabilityRepositoryFindMatching(t *testing.T) {
	db, mock, cleanup := newAvailabilityMock(t)
	defer cleanup()
	repo := NewAvailabilityRepository(db)

	from := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT .+ FROM availability_windows\s+WHERE trainer_id = \$1 AND date >= \$2 AND date <= \$3 AND start_time = \$4 AND end_time = \$5`).
		WithArgs("t1", from, to, "09:00", "12:00").
		WillReturnRows(availabilityRows(
			models.AvailabilityWindow{ID: "w1", TrainerID: "t1", Date: from, StartTime: "09:00", EndTime: "12:00"},
			models.AvailabilityWindow{ID: "w2", TrainerID: "t1", Date: from.AddDate(0, 0, 1), StartTime: "09:00", EndTime: "12:00"},
		))

	windows, err := repo.FindMatching(context.Background(), "t1", from, to, "09:00", "12:00")
	require.NoError(t, err)
	assert.Len(t, windows, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAvailabilityRepositoryDeleteByIDs(t *testing.T) {
	db, mock, cleanup := newAvailabilityMock(t)
	defer cleanup()
	repo := NewAvailabilityRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM availability_windows WHERE id IN ($1, $2)`)).
		WithArgs("w1", "w2").
		WillReturnResult(sqlmock.NewResult(0, 2))

	count, err := repo.DeleteByIDs(context.Background(), []string{"w1", "w2"})
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAvailabilityRepositoryDeleteByIDsRowCountFailure(t *testing.T) {
	db, mock, cleanup := newAvailabilityMock(t)
	defer cleanup()
	repo := NewAvailabilityRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM availability_windows WHERE id IN ($1)`)).
		WithArgs("w1").
		WillReturnResult(sqlmock.NewErrorResult(assert.AnError))

	_, err := repo.DeleteByIDs(context.Background(), []string{"w1"})
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestAvailabilityRepositoryDeleteByIDsEmpty(t *testing.T) {
	db, _, cleanup := newAvailabilityMock(t)
	defer cleanup()
	repo := NewAvailabilityRepository(db)

	count, err := repo.DeleteByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, count)
}
