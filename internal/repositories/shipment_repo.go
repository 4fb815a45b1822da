package repositories

import (
	"context"

	"courierhub/internal/models"

	"github.com/google/uuid"
)

type ShipmentRepository interface {
	Create(ctx context.Context, shipment *models.Shipment) error
	GetByTracking(ctx context.Context, tenantID uuid.UUID, trackingNumber string) (*models.Shipment, error)
	// GetByTrackingAnyTenant backs the public tracking endpoint only. All
	// tenant-facing reads go through GetByTracking.
	GetByTrackingAnyTenant(ctx context.Context, trackingNumber string) (*models.Shipment, error)
	// UpdateStatus performs a compare-and-swap on the status column. It
	// returns the number of rows changed; zero means the stored status no
	// longer matches fromStatus and the caller lost the race.
	UpdateStatus(ctx context.Context, tenantID uuid.UUID, trackingNumber, fromStatus, toStatus string) (int64, error)
	TrackingExists(ctx context.Context, tenantID uuid.UUID, trackingNumber string) (bool, error)
	List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Shipment, error)
}

type shipmentRepo struct {
	db DB
}

func NewShipmentRepo(db DB) ShipmentRepository {
	return &shipmentRepo{db: db}
}

const shipmentColumns = `id, tenant_id, tracking_number, sender, receiver, parcel, service_type, status, estimated_delivery, created_at, updated_at`

func (r *shipmentRepo) Create(ctx context.Context, shipment *models.Shipment) error {
	query := `
		INSERT INTO shipments (id, tenant_id, tracking_number, sender, receiver, parcel, service_type, status, estimated_delivery, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, shipment.ID, shipment.TenantID, shipment.TrackingNumber, shipment.Sender, shipment.Receiver, shipment.Parcel, shipment.ServiceType, shipment.Status, shipment.EstimatedDelivery)
	return err
}

func (r *shipmentRepo) scanShipment(row interface{ Scan(dest ...any) error }) (*models.Shipment, error) {
	shipment := &models.Shipment{}
	err := row.Scan(&shipment.ID, &shipment.TenantID, &shipment.TrackingNumber, &shipment.Sender, &shipment.Receiver, &shipment.Parcel, &shipment.ServiceType, &shipment.Status, &shipment.EstimatedDelivery, &shipment.CreatedAt, &shipment.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return shipment, nil
}

func (r *shipmentRepo) GetByTracking(ctx context.Context, tenantID uuid.UUID, trackingNumber string) (*models.Shipment, error) {
	query := `
		SELECT ` + shipmentColumns + `
		FROM shipments
		WHERE tenant_id = $1 AND tracking_number = $2
	`
	return r.scanShipment(r.db.QueryRow(ctx, query, tenantID, trackingNumber))
}

func (r *shipmentRepo) GetByTrackingAnyTenant(ctx context.Context, trackingNumber string) (*models.Shipment, error) {
	query := `
		SELECT ` + shipmentColumns + `
		FROM shipments
		WHERE tracking_number = $1
	`
	return r.scanShipment(r.db.QueryRow(ctx, query, trackingNumber))
}

func (r *shipmentRepo) UpdateStatus(ctx context.Context, tenantID uuid.UUID, trackingNumber, fromStatus, toStatus string) (int64, error) {
	query := `
		UPDATE shipments
		SET status = $1, updated_at = NOW()
		WHERE tenant_id = $2 AND tracking_number = $3 AND status = $4
	`
	tag, err := r.db.Exec(ctx, query, toStatus, tenantID, trackingNumber, fromStatus)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *shipmentRepo) TrackingExists(ctx context.Context, tenantID uuid.UUID, trackingNumber string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM shipments WHERE tenant_id = $1 AND tracking_number = $2)`
	err := r.db.QueryRow(ctx, query, tenantID, trackingNumber).Scan(&exists)
	return exists, err
}

func (r *shipmentRepo) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Shipment, error) {
	query := `
		SELECT ` + shipmentColumns + `
		FROM shipments
		WHERE tenant_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shipments []*models.Shipment
	for rows.Next() {
		shipment, err := r.scanShipment(rows)
		if err != nil {
			return nil, err
		}
		shipments = append(shipments, shipment)
	}
	return shipments, rows.Err()
}
