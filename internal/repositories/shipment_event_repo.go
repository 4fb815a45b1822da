package repositories

import (
	"context"

	"courierhub/internal/models"

	"github.com/google/uuid"
)

// ShipmentEventRepository is append-only. Events are never updated or removed.
type ShipmentEventRepository interface {
	Append(ctx context.Context, event *models.ShipmentEvent) error
	ListByTracking(ctx context.Context, tenantID uuid.UUID, trackingNumber string) ([]*models.ShipmentEvent, error)
}

type shipmentEventRepo struct {
	db DB
}

func NewShipmentEventRepo(db DB) ShipmentEventRepository {
	return &shipmentEventRepo{db: db}
}

func (r *shipmentEventRepo) Append(ctx context.Context, event *models.ShipmentEvent) error {
	query := `
		INSERT INTO shipment_events (id, tenant_id, tracking_number, status, location, notes, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(ctx, query, event.ID, event.TenantID, event.TrackingNumber, event.Status, event.Location, event.Notes, event.Timestamp)
	return err
}

func (r *shipmentEventRepo) ListByTracking(ctx context.Context, tenantID uuid.UUID, trackingNumber string) ([]*models.ShipmentEvent, error) {
	query := `
		SELECT id, tenant_id, tracking_number, status, location, notes, timestamp
		FROM shipment_events
		WHERE tenant_id = $1 AND tracking_number = $2
		ORDER BY timestamp ASC
	`
	rows, err := r.db.Query(ctx, query, tenantID, trackingNumber)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}

type eventRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanEvents(rows eventRows) ([]*models.ShipmentEvent, error) {
	var events []*models.ShipmentEvent
	for rows.Next() {
		event := &models.ShipmentEvent{}
		if err := rows.Scan(&event.ID, &event.TenantID, &event.TrackingNumber, &event.Status, &event.Location, &event.Notes, &event.Timestamp); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}
