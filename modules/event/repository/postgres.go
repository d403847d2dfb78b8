package repository

import (
	"context"
	"database/sql"

	"meetgrid/core/database"
	"meetgrid/core/logger"
	"meetgrid/modules/event/entity"

	"github.com/jmoiron/sqlx"
)

// EventRepository stores events in PostgreSQL. The grid is split over
// event_slots (one row per cell) and slot_availability (one row per mark).
type EventRepository struct {
	DB database.IDatabase
}

// NewEventRepository creates a new repository instance
func NewEventRepository(db database.IDatabase) *EventRepository {
	return &EventRepository{DB: db}
}

const eventColumns = `id, name, description, location, dates, start_time, end_time, status,
	final_date, final_time, created_at, updated_at`

type availabilityRow struct {
	Date        string `db:"date"`
	Time        string `db:"time"`
	Participant string `db:"participant"`
}

func (r *EventRepository) Create(ctx context.Context, event *entity.Event) error {
	err := r.DB.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO events (id, name, description, location, dates, start_time, end_time, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING created_at, updated_at
		`
		row := tx.QueryRowxContext(ctx, query,
			event.ID, event.Name, event.Description, event.Location, event.Dates,
			event.StartTime, event.EndTime, event.Status)
		if err := row.Scan(&event.CreatedAt, &event.UpdatedAt); err != nil {
			return err
		}

		for i, slot := range event.TimeSlots {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO event_slots (event_id, date, time, position) VALUES ($1, $2, $3, $4)`,
				event.ID, slot.Date, slot.Time, i); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Error("EventRepository:Create", "event_id", event.ID, "error", err)
		return err
	}
	return nil
}

func (r *EventRepository) GetByID(ctx context.Context, id string) (*entity.Event, error) {
	var event entity.Event
	err := r.DB.GetContext(ctx, &event, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("EventRepository:GetByID", "event_id", id, "error", err)
		return nil, err
	}

	if err := r.loadParticipants(ctx, &event); err != nil {
		return nil, err
	}
	if err := r.loadSlots(ctx, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// List returns every event with its participants, newest first. Slots are
// not loaded.
func (r *EventRepository) List(ctx context.Context) ([]entity.Event, error) {
	var events []entity.Event
	err := r.DB.SelectContext(ctx, &events, `SELECT `+eventColumns+` FROM events ORDER BY created_at DESC`)
	if err != nil {
		logger.Error("EventRepository:List", "error", err)
		return nil, err
	}

	for i := range events {
		if err := r.loadParticipants(ctx, &events[i]); err != nil {
			return nil, err
		}
	}
	return events, nil
}

func (r *EventRepository) Update(ctx context.Context, event *entity.Event) error {
	query := `
		UPDATE events
		SET name = $2, description = $3, location = $4, status = $5,
		    final_date = $6, final_time = $7, updated_at = NOW()
		WHERE id = $1
	`
	err := r.DB.ExecContext(ctx, query,
		event.ID, event.Name, event.Description, event.Location, event.Status,
		event.FinalDate, event.FinalTime)
	if err != nil {
		logger.Error("EventRepository:Update", "event_id", event.ID, "error", err)
		return err
	}
	return nil
}

func (r *EventRepository) AddParticipant(ctx context.Context, eventID string, name string) error {
	query := `
		INSERT INTO event_participants (event_id, name, position)
		SELECT $1, $2, COALESCE(MAX(position) + 1, 0) FROM event_participants WHERE event_id = $1
		ON CONFLICT (event_id, name) DO NOTHING
	`
	if err := r.DB.ExecContext(ctx, query, eventID, name); err != nil {
		logger.Error("EventRepository:AddParticipant", "event_id", eventID, "error", err)
		return err
	}
	return nil
}

func (r *EventRepository) SaveSlots(ctx context.Context, eventID string, slots []entity.TimeSlot) error {
	err := r.DB.WithTx(ctx, func(tx *sqlx.Tx) error {
		for _, slot := range slots {
			if _, err := tx.ExecContext(ctx,
				`DELETE FROM slot_availability WHERE event_id = $1 AND date = $2 AND time = $3`,
				eventID, slot.Date, slot.Time); err != nil {
				return err
			}
			for i, name := range slot.Available {
				if _, err := tx.ExecContext(ctx,
					`INSERT INTO slot_availability (event_id, date, time, participant, position) VALUES ($1, $2, $3, $4, $5)`,
					eventID, slot.Date, slot.Time, name, i); err != nil {
					return err
				}
			}
		}
		_, err := tx.ExecContext(ctx, `UPDATE events SET updated_at = NOW() WHERE id = $1`, eventID)
		return err
	})
	if err != nil {
		logger.Error("EventRepository:SaveSlots", "event_id", eventID, "slots", len(slots), "error", err)
		return err
	}
	return nil
}

func (r *EventRepository) loadParticipants(ctx context.Context, event *entity.Event) error {
	names := []string{}
	err := r.DB.SelectContext(ctx, &names,
		`SELECT name FROM event_participants WHERE event_id = $1 ORDER BY position`, event.ID)
	if err != nil {
		logger.Error("EventRepository:loadParticipants", "event_id", event.ID, "error", err)
		return err
	}
	event.Participants = names
	return nil
}

func (r *EventRepository) loadSlots(ctx context.Context, event *entity.Event) error {
	var slots []entity.TimeSlot
	err := r.DB.SelectContext(ctx, &slots,
		`SELECT date, time FROM event_slots WHERE event_id = $1 ORDER BY position`, event.ID)
	if err != nil {
		logger.Error("EventRepository:loadSlots", "event_id", event.ID, "error", err)
		return err
	}

	var marks []availabilityRow
	err = r.DB.SelectContext(ctx, &marks, `
		SELECT date, time, participant FROM slot_availability
		WHERE event_id = $1 ORDER BY date, time, position`, event.ID)
	if err != nil {
		logger.Error("EventRepository:loadSlots:Availability", "event_id", event.ID, "error", err)
		return err
	}

	byKey := make(map[entity.SlotKey][]string, len(marks))
	for _, m := range marks {
		k := entity.SlotKey{Date: m.Date, Time: m.Time}
		byKey[k] = append(byKey[k], m.Participant)
	}
	for i := range slots {
		if names, ok := byKey[slots[i].Key()]; ok {
			slots[i].Available = names
		} else {
			slots[i].Available = []string{}
		}
	}
	event.TimeSlots = slots
	return nil
}
