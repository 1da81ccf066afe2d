package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/flowpilotuk-hash/flowpilot/internal/models"
)

type AppointmentRepository interface {
	GetByExternalID(ctx context.Context, userID int64, externalID string) (*models.AppointmentEvent, bool, error)
	Create(ctx context.Context, event *models.AppointmentEvent) (int64, error)
}

type appointmentRepository struct {
	db *sql.DB
}

func NewAppointmentRepository(db *sql.DB) AppointmentRepository {
	return &appointmentRepository{db: db}
}

func (r *appointmentRepository) GetByExternalID(ctx context.Context, userID int64, externalID string) (*models.AppointmentEvent, bool, error) {
	query := `
		SELECT id, user_id, external_event_id, customer_name, customer_email, customer_phone, appointment_end, payload, created_at
		FROM appointment_events
		WHERE user_id = $1 AND external_event_id = $2
	`

	var event models.AppointmentEvent
	var payload []byte
	err := r.db.QueryRowContext(ctx, query, userID, externalID).Scan(
		&event.ID, &event.UserID, &event.ExternalEventID,
		&event.CustomerName, &event.CustomerEmail, &event.CustomerPhone,
		&event.AppointmentEnd, &payload, &event.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}
	event.Payload = payload

	return &event, true, nil
}

func (r *appointmentRepository) Create(ctx context.Context, event *models.AppointmentEvent) (int64, error) {
	query := `
		INSERT INTO appointment_events (user_id, external_event_id, customer_name, customer_email, customer_phone, appointment_end, payload)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		event.UserID, event.ExternalEventID,
		event.CustomerName, event.CustomerEmail, event.CustomerPhone,
		event.AppointmentEnd, []byte(event.Payload),
	).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}
