package repositories

import (
	"context"

	"courierhub/internal/models"

	"github.com/google/uuid"
)

type RateRepository interface {
	Upsert(ctx context.Context, rate *models.Rate) error
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*models.Rate, error)
	ListByService(ctx context.Context, tenantID uuid.UUID, serviceType string) ([]*models.Rate, error)
}

type rateRepo struct {
	db DB
}

func NewRateRepo(db DB) RateRepository {
	return &rateRepo{db: db}
}

const rateColumns = `id, tenant_id, service_type, base_rate, additional_kg_rate, min_weight, max_weight, volumetric_divisor, fuel_surcharge_percent, remote_surcharge, currency, created_at, updated_at`

func (r *rateRepo) Upsert(ctx context.Context, rate *models.Rate) error {
	query := `
		INSERT INTO rates (id, tenant_id, service_type, base_rate, additional_kg_rate, min_weight, max_weight, volumetric_divisor, fuel_surcharge_percent, remote_surcharge, currency, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
		ON CONFLICT (tenant_id, service_type, min_weight) DO UPDATE
		SET base_rate = EXCLUDED.base_rate, additional_kg_rate = EXCLUDED.additional_kg_rate,
			max_weight = EXCLUDED.max_weight, volumetric_divisor = EXCLUDED.volumetric_divisor,
			fuel_surcharge_percent = EXCLUDED.fuel_surcharge_percent, remote_surcharge = EXCLUDED.remote_surcharge,
			currency = EXCLUDED.currency, updated_at = NOW()
	`
	_, err := r.db.Exec(ctx, query, rate.ID, rate.TenantID, rate.ServiceType, rate.BaseRate, rate.AdditionalKgRate, rate.MinWeight, rate.MaxWeight, rate.VolumetricDivisor, rate.FuelSurchargePct, rate.RemoteSurcharge, rate.Currency)
	return err
}

func (r *rateRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*models.Rate, error) {
	query := `
		SELECT ` + rateColumns + `
		FROM rates
		WHERE tenant_id = $1
		ORDER BY service_type, min_weight
	`
	rows, err := r.db.Query(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRates(rows)
}

func (r *rateRepo) ListByService(ctx context.Context, tenantID uuid.UUID, serviceType string) ([]*models.Rate, error) {
	query := `
		SELECT ` + rateColumns + `
		FROM rates
		WHERE tenant_id = $1 AND service_type = $2
		ORDER BY min_weight
	`
	rows, err := r.db.Query(ctx, query, tenantID, serviceType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRates(rows)
}

type rateRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanRates(rows rateRows) ([]*models.Rate, error) {
	var rates []*models.Rate
	for rows.Next() {
		rate := &models.Rate{}
		if err := rows.Scan(&rate.ID, &rate.TenantID, &rate.ServiceType, &rate.BaseRate, &rate.AdditionalKgRate, &rate.MinWeight, &rate.MaxWeight, &rate.VolumetricDivisor, &rate.FuelSurchargePct, &rate.RemoteSurcharge, &rate.Currency, &rate.CreatedAt, &rate.UpdatedAt); err != nil {
			return nil, err
		}
		rates = append(rates, rate)
	}
	return rates, rows.Err()
}
