package services

import (
	"context"
	"fmt"
	"time"

	"courierhub/internal/caching"
	"courierhub/internal/common"
	"courierhub/internal/models"
	"courierhub/internal/repositories"

	"github.com/google/uuid"
)

const (
	defaultVolumetricDivisor = 5000.0
	rateCacheTTL             = 15 * time.Minute
)

// deliveryDays is the fixed per-service estimate; it is not derived from
// the rate table.
var deliveryDays = map[string]struct{ Min, Max int }{
	models.ServiceStandard:  {3, 5},
	models.ServiceExpress:   {1, 2},
	models.ServiceOvernight: {1, 1},
}

type QuoteRequest struct {
	Weight            float64  `json:"weight"`
	Length            *float64 `json:"length,omitempty"`
	Width             *float64 `json:"width,omitempty"`
	Height            *float64 `json:"height,omitempty"`
	ServiceType       string   `json:"service_type"`
	RemoteDestination bool     `json:"remote_destination"`
}

type RateService interface {
	Quote(ctx context.Context, tc common.TenantContext, req *QuoteRequest) (*models.Quote, error)
	UpsertRate(ctx context.Context, tc common.TenantContext, rate *models.Rate) error
	ListRates(ctx context.Context, tc common.TenantContext) ([]*models.Rate, error)
	// DeliveryDeadline returns when a shipment created now is expected to
	// arrive, using the upper bound of the service's delivery-day range.
	DeliveryDeadline(serviceType string, from time.Time) (time.Time, error)
	// RefreshRateCache re-primes the cached rate tables for one tenant.
	RefreshRateCache(ctx context.Context, tenantID uuid.UUID) error
}

type rateService struct {
	rateRepo repositories.RateRepository
	cacheSvc caching.CacheService
}

func NewRateService(rateRepo repositories.RateRepository, cacheSvc caching.CacheService) RateService {
	return &rateService{rateRepo: rateRepo, cacheSvc: cacheSvc}
}

func (s *rateService) Quote(ctx context.Context, tc common.TenantContext, req *QuoteRequest) (*models.Quote, error) {
	if req.Weight <= 0 {
		return nil, common.NewValidationError("weight must be positive")
	}
	if !models.ValidServiceType(req.ServiceType) {
		return nil, common.NewValidationError("service_type must be one of: standard, express, overnight")
	}
	for name, dim := range map[string]*float64{"length": req.Length, "width": req.Width, "height": req.Height} {
		if dim != nil && *dim <= 0 {
			return nil, common.NewValidationError(name + " must be positive when provided")
		}
	}

	rates, err := s.ratesForService(ctx, tc.TenantID, req.ServiceType)
	if err != nil {
		return nil, common.NewInternalError(err)
	}

	return Calculate(req, rates)
}

// Calculate computes a quote from the given rate brackets. It is a pure
// function: same request and same brackets always produce the same quote,
// and the total is non-decreasing in chargeable weight.
func Calculate(req *QuoteRequest, rates []*models.Rate) (*models.Quote, error) {
	divisor := defaultVolumetricDivisor
	if len(rates) > 0 && rates[0].VolumetricDivisor > 0 {
		divisor = rates[0].VolumetricDivisor
	}

	volumetric := 0.0
	if req.Length != nil && req.Width != nil && req.Height != nil {
		volumetric = (*req.Length * *req.Width * *req.Height) / divisor
	}

	chargeable := req.Weight
	if volumetric > chargeable {
		chargeable = volumetric
	}

	var bracket *models.Rate
	for _, rate := range rates {
		if chargeable >= rate.MinWeight && chargeable <= rate.MaxWeight {
			bracket = rate
			break
		}
	}
	if bracket == nil {
		return nil, common.NewRateNotConfiguredError(req.ServiceType, chargeable)
	}

	// First kg is covered by the base rate.
	extraKg := chargeable - 1
	if extraKg < 0 {
		extraKg = 0
	}
	cost := bracket.BaseRate + extraKg*bracket.AdditionalKgRate
	fuel := cost * bracket.FuelSurchargePct / 100

	remote := 0.0
	if req.RemoteDestination {
		remote = bracket.RemoteSurcharge
	}

	days := deliveryDays[req.ServiceType]

	return &models.Quote{
		ServiceType:           req.ServiceType,
		Weight:                req.Weight,
		VolumetricWeight:      volumetric,
		ChargeableWeight:      chargeable,
		BaseCost:              cost,
		FuelSurcharge:         fuel,
		RemoteSurcharge:       remote,
		Total:                 cost + fuel + remote,
		Currency:              bracket.Currency,
		EstimatedDeliveryDays: formatDeliveryDays(days.Min, days.Max),
	}, nil
}

func formatDeliveryDays(min, max int) string {
	if min == max {
		if min == 1 {
			return "1 day"
		}
		return fmt.Sprintf("%d days", min)
	}
	return fmt.Sprintf("%d-%d days", min, max)
}

func (s *rateService) DeliveryDeadline(serviceType string, from time.Time) (time.Time, error) {
	days, ok := deliveryDays[serviceType]
	if !ok {
		return time.Time{}, common.NewValidationError("service_type must be one of: standard, express, overnight")
	}
	return from.AddDate(0, 0, days.Max), nil
}

func (s *rateService) UpsertRate(ctx context.Context, tc common.TenantContext, rate *models.Rate) error {
	if !models.ValidServiceType(rate.ServiceType) {
		return common.NewValidationError("service_type must be one of: standard, express, overnight")
	}
	if rate.MinWeight < 0 || rate.MaxWeight <= rate.MinWeight {
		return common.NewValidationError("min_weight must be non-negative and less than max_weight")
	}
	if rate.BaseRate < 0 || rate.AdditionalKgRate < 0 || rate.FuelSurchargePct < 0 || rate.RemoteSurcharge < 0 {
		return common.NewValidationError("monetary fields must be non-negative")
	}
	if rate.Currency == "" {
		rate.Currency = "USD"
	}
	if rate.ID == uuid.Nil {
		rate.ID = uuid.New()
	}
	rate.TenantID = tc.TenantID

	if err := s.rateRepo.Upsert(ctx, rate); err != nil {
		return common.NewInternalError(err)
	}

	// Stale brackets must not survive an upsert.
	if err := s.cacheSvc.InvalidateRates(ctx, tc.TenantID); err != nil {
		// Cache invalidation failure is not fatal; the TTL bounds staleness.
		return nil
	}
	return nil
}

func (s *rateService) ListRates(ctx context.Context, tc common.TenantContext) ([]*models.Rate, error) {
	rates, err := s.rateRepo.ListByTenant(ctx, tc.TenantID)
	if err != nil {
		return nil, common.NewInternalError(err)
	}
	return rates, nil
}

func (s *rateService) RefreshRateCache(ctx context.Context, tenantID uuid.UUID) error {
	for _, serviceType := range []string{models.ServiceStandard, models.ServiceExpress, models.ServiceOvernight} {
		rates, err := s.rateRepo.ListByService(ctx, tenantID, serviceType)
		if err != nil {
			return err
		}
		if len(rates) == 0 {
			continue
		}
		if err := s.cacheSvc.SetRates(ctx, tenantID, serviceType, rates, rateCacheTTL); err != nil {
			return err
		}
	}
	return nil
}

func (s *rateService) ratesForService(ctx context.Context, tenantID uuid.UUID, serviceType string) ([]*models.Rate, error) {
	if cached, err := s.cacheSvc.GetRates(ctx, tenantID, serviceType); err == nil && cached != nil {
		return cached, nil
	}

	rates, err := s.rateRepo.ListByService(ctx, tenantID, serviceType)
	if err != nil {
		return nil, err
	}

	if len(rates) > 0 {
		// Ignore cache write failures; the next read falls through to the repo.
		_ = s.cacheSvc.SetRates(ctx, tenantID, serviceType, rates, rateCacheTTL)
	}
	return rates, nil
}
