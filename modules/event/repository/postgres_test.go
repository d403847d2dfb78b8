package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"meetgrid/core/database"
	"meetgrid/modules/event/entity"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (*EventRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewEventRepository(database.New(sqlx.NewDb(db, "postgres"))), mock
}

var eventCols = []string{"id", "name", "description", "location", "dates", "start_time", "end_time",
	"status", "final_date", "final_time", "created_at", "updated_at"}

func TestEventRepositoryGetByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(`SELECT .+ FROM events WHERE id = \$1`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(eventCols))

	ev, err := repo.GetByID(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, ev)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepositoryGetByIDAssemblesGrid(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Date(2026, 1, 20, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT .+ FROM events WHERE id = \$1`).
		WithArgs("ev1").
		WillReturnRows(sqlmock.NewRows(eventCols).AddRow(
			"ev1", "Team sync", "", "Room 4", `["2026-01-25"]`, "09:00", "11:00",
			"open", nil, nil, now, now))
	mock.ExpectQuery(`SELECT name FROM event_participants`).
		WithArgs("ev1").
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Alice").AddRow("Bob"))
	mock.ExpectQuery(`SELECT date, time FROM event_slots`).
		WithArgs("ev1").
		WillReturnRows(sqlmock.NewRows([]string{"date", "time"}).
			AddRow("2026-01-25", "09:00").
			AddRow("2026-01-25", "10:00"))
	mock.ExpectQuery(`SELECT date, time, participant FROM slot_availability`).
		WithArgs("ev1").
		WillReturnRows(sqlmock.NewRows([]string{"date", "time", "participant"}).
			AddRow("2026-01-25", "10:00", "Bob").
			AddRow("2026-01-25", "10:00", "Alice"))

	ev, err := repo.GetByID(context.Background(), "ev1")
	require.NoError(t, err)
	require.NotNil(t, ev)

	assert.Equal(t, "Team sync", ev.Name)
	assert.Equal(t, entity.DateList{"2026-01-25"}, ev.Dates)
	assert.Equal(t, entity.EventStatusOpen, ev.Status)
	assert.Nil(t, ev.FinalDate)
	assert.Equal(t, []string{"Alice", "Bob"}, ev.Participants)
	require.Len(t, ev.TimeSlots, 2)
	assert.Empty(t, ev.TimeSlots[0].Available)
	assert.Equal(t, []string{"Bob", "Alice"}, ev.TimeSlots[1].Available)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepositoryCreate(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	ev := &entity.Event{
		ID:        "ev1",
		Name:      "Team sync",
		Dates:     entity.DateList{"2026-01-25"},
		StartTime: "09:00",
		EndTime:   "11:00",
		Status:    entity.EventStatusOpen,
		TimeSlots: []entity.TimeSlot{
			{Date: "2026-01-25", Time: "09:00"},
			{Date: "2026-01-25", Time: "10:00"},
		},
	}

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO events`).
		WithArgs("ev1", "Team sync", "", "", sqlmock.AnyArg(), "09:00", "11:00", entity.EventStatusOpen).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
	mock.ExpectExec(`INSERT INTO event_slots`).
		WithArgs("ev1", "2026-01-25", "09:00", 0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO event_slots`).
		WithArgs("ev1", "2026-01-25", "10:00", 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Create(context.Background(), ev))
	assert.Equal(t, now, ev.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepositoryCreateRollsBack(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	ev := &entity.Event{
		ID:        "ev1",
		Name:      "Team sync",
		TimeSlots: []entity.TimeSlot{{Date: "2026-01-25", Time: "09:00"}},
	}

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO events`).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
	mock.ExpectExec(`INSERT INTO event_slots`).WillReturnError(errors.New("boom"))
	mock.ExpectRollback()

	assert.Error(t, repo.Create(context.Background(), ev))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepositorySaveSlots(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM slot_availability`).
		WithArgs("ev1", "2026-01-25", "09:00").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO slot_availability`).
		WithArgs("ev1", "2026-01-25", "09:00", "Alice", 0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO slot_availability`).
		WithArgs("ev1", "2026-01-25", "09:00", "Bob", 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM slot_availability`).
		WithArgs("ev1", "2026-01-25", "10:00").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`UPDATE events SET updated_at`).
		WithArgs("ev1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.SaveSlots(context.Background(), "ev1", []entity.TimeSlot{
		{Date: "2026-01-25", Time: "09:00", Available: []string{"Alice", "Bob"}},
		{Date: "2026-01-25", Time: "10:00", Available: []string{}},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemoryEventRepositoryIsolation(t *testing.T) {
	repo := NewMemoryEventRepository()
	ctx := context.Background()

	ev := &entity.Event{
		ID:        "ev1",
		Name:      "Team sync",
		TimeSlots: []entity.TimeSlot{{Date: "2026-01-25", Time: "09:00", Available: []string{}}},
	}
	require.NoError(t, repo.Create(ctx, ev))
	ev.Name = "mutated"

	got, err := repo.GetByID(ctx, "ev1")
	require.NoError(t, err)
	assert.Equal(t, "Team sync", got.Name)

	got.TimeSlots[0].Available = append(got.TimeSlots[0].Available, "Alice")
	require.NoError(t, repo.SaveSlots(ctx, "ev1", got.TimeSlots))
	require.NoError(t, repo.AddParticipant(ctx, "ev1", "Alice"))
	require.NoError(t, repo.AddParticipant(ctx, "ev1", "Alice"))

	again, err := repo.GetByID(ctx, "ev1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice"}, again.TimeSlots[0].Available)
	assert.Equal(t, []string{"Alice"}, again.Participants)

	missing, err := repo.GetByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
