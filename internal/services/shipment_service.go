package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"courierhub/internal/common"
	"courierhub/internal/models"
	"courierhub/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/gommon/random"
)

const (
	trackingPrefix       = "CH"
	trackingRandomLength = 8
	maxTrackingAttempts  = 5
	maxParcelWeightKg    = 1000.0
)

type CreateShipmentRequest struct {
	Sender      models.Address `json:"sender"`
	Receiver    models.Address `json:"receiver"`
	Parcel      models.Parcel  `json:"parcel"`
	ServiceType string         `json:"service_type"`
}

type RecordEventRequest struct {
	Status   string  `json:"status"`
	Location string  `json:"location"`
	Notes    *string `json:"notes,omitempty"`
}

type ShipmentService interface {
	Create(ctx context.Context, tc common.TenantContext, req *CreateShipmentRequest) (*models.Shipment, error)
	RecordEvent(ctx context.Context, tc common.TenantContext, trackingNumber string, req *RecordEventRequest) (*models.Shipment, error)
	GetByTracking(ctx context.Context, tc common.TenantContext, trackingNumber string) (*models.Shipment, error)
	ListEvents(ctx context.Context, tc common.TenantContext, trackingNumber string) ([]*models.ShipmentEvent, error)
	List(ctx context.Context, tc common.TenantContext, limit, offset int) ([]*models.Shipment, error)
	// PublicTracking is the tenant-agnostic, PII-free projection for the
	// public tracking endpoint.
	PublicTracking(ctx context.Context, trackingNumber string) (*models.PublicTracking, error)
}

type shipmentService struct {
	shipmentRepo repositories.ShipmentRepository
	eventRepo    repositories.ShipmentEventRepository
	rateSvc      RateService
	now          func() time.Time
}

func NewShipmentService(shipmentRepo repositories.ShipmentRepository, eventRepo repositories.ShipmentEventRepository, rateSvc RateService) ShipmentService {
	return &shipmentService{
		shipmentRepo: shipmentRepo,
		eventRepo:    eventRepo,
		rateSvc:      rateSvc,
		now:          time.Now,
	}
}

// GenerateTrackingNumber produces a tracking number of the form
// CH + 8 uppercase alphanumeric characters.
func GenerateTrackingNumber() string {
	return trackingPrefix + strings.ToUpper(random.String(trackingRandomLength, random.Alphanumeric))
}

func (s *shipmentService) Create(ctx context.Context, tc common.TenantContext, req *CreateShipmentRequest) (*models.Shipment, error) {
	if err := validateAddress(req.Sender, "sender"); err != nil {
		return nil, err
	}
	if err := validateAddress(req.Receiver, "receiver"); err != nil {
		return nil, err
	}
	if err := common.ValidatePositiveFloat(req.Parcel.Weight, "parcel weight", maxParcelWeightKg); err != nil {
		return nil, common.NewValidationError(err.Error())
	}
	for name, dim := range map[string]*float64{"length": req.Parcel.Length, "width": req.Parcel.Width, "height": req.Parcel.Height} {
		if dim != nil && *dim <= 0 {
			return nil, common.NewValidationError("parcel " + name + " must be positive when provided")
		}
	}
	if !models.ValidServiceType(req.ServiceType) {
		return nil, common.NewValidationError("service_type must be one of: standard, express, overnight")
	}

	trackingNumber, err := s.uniqueTrackingNumber(ctx, tc.TenantID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	eta, err := s.rateSvc.DeliveryDeadline(req.ServiceType, now)
	if err != nil {
		return nil, err
	}

	shipment := &models.Shipment{
		ID:                uuid.New(),
		TenantID:          tc.TenantID,
		TrackingNumber:    trackingNumber,
		Sender:            req.Sender,
		Receiver:          req.Receiver,
		Parcel:            req.Parcel,
		ServiceType:       req.ServiceType,
		Status:            models.StatusCreated,
		EstimatedDelivery: eta,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.shipmentRepo.Create(ctx, shipment); err != nil {
		return nil, common.NewInternalError(err)
	}

	event := &models.ShipmentEvent{
		ID:             uuid.New(),
		TenantID:       tc.TenantID,
		TrackingNumber: trackingNumber,
		Status:         models.StatusCreated,
		Location:       req.Sender.City,
		Timestamp:      now,
	}
	if err := s.eventRepo.Append(ctx, event); err != nil {
		return nil, common.NewInternalError(err)
	}

	return shipment, nil
}

func (s *shipmentService) uniqueTrackingNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	for attempt := 0; attempt < maxTrackingAttempts; attempt++ {
		candidate := GenerateTrackingNumber()
		exists, err := s.shipmentRepo.TrackingExists(ctx, tenantID, candidate)
		if err != nil {
			return "", common.NewInternalError(err)
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", common.NewInternalError(errors.New("could not generate a unique tracking number"))
}

func (s *shipmentService) RecordEvent(ctx context.Context, tc common.TenantContext, trackingNumber string, req *RecordEventRequest) (*models.Shipment, error) {
	if !models.ValidShipmentStatus(req.Status) {
		return nil, common.NewValidationError("unknown shipment status: " + req.Status)
	}
	if err := common.ValidateRequiredString(req.Location, "location"); err != nil {
		return nil, common.NewValidationError(err.Error())
	}

	shipment, err := s.shipmentRepo.GetByTracking(ctx, tc.TenantID, trackingNumber)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFoundError("shipment")
		}
		return nil, common.NewInternalError(err)
	}

	if !models.CanTransition(shipment.Status, req.Status) {
		return nil, common.NewInvalidTransitionError(shipment.Status, req.Status)
	}

	// Optimistic concurrency: the swap only applies if the status is still
	// what we read. A racing updater makes this a no-op and we report the
	// conflict instead of overwriting.
	affected, err := s.shipmentRepo.UpdateStatus(ctx, tc.TenantID, trackingNumber, shipment.Status, req.Status)
	if err != nil {
		return nil, common.NewInternalError(err)
	}
	if affected == 0 {
		return nil, common.NewConflictError("shipment status changed concurrently, retry with fresh state")
	}

	now := s.now()
	event := &models.ShipmentEvent{
		ID:             uuid.New(),
		TenantID:       tc.TenantID,
		TrackingNumber: trackingNumber,
		Status:         req.Status,
		Location:       req.Location,
		Notes:          req.Notes,
		Timestamp:      now,
	}
	if err := s.eventRepo.Append(ctx, event); err != nil {
		return nil, common.NewInternalError(err)
	}

	shipment.Status = req.Status
	shipment.UpdatedAt = now
	return shipment, nil
}

func (s *shipmentService) GetByTracking(ctx context.Context, tc common.TenantContext, trackingNumber string) (*models.Shipment, error) {
	shipment, err := s.shipmentRepo.GetByTracking(ctx, tc.TenantID, trackingNumber)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFoundError("shipment")
		}
		return nil, common.NewInternalError(err)
	}
	return shipment, nil
}

func (s *shipmentService) ListEvents(ctx context.Context, tc common.TenantContext, trackingNumber string) ([]*models.ShipmentEvent, error) {
	events, err := s.eventRepo.ListByTracking(ctx, tc.TenantID, trackingNumber)
	if err != nil {
		return nil, common.NewInternalError(err)
	}
	return events, nil
}

func (s *shipmentService) List(ctx context.Context, tc common.TenantContext, limit, offset int) ([]*models.Shipment, error) {
	limit, offset = common.ValidatePaginationParams(limit, offset)
	shipments, err := s.shipmentRepo.List(ctx, tc.TenantID, limit, offset)
	if err != nil {
		return nil, common.NewInternalError(err)
	}
	return shipments, nil
}

func (s *shipmentService) PublicTracking(ctx context.Context, trackingNumber string) (*models.PublicTracking, error) {
	shipment, err := s.shipmentRepo.GetByTrackingAnyTenant(ctx, trackingNumber)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFoundError("shipment")
		}
		return nil, common.NewInternalError(err)
	}

	// Tracking numbers are only unique per tenant, so the event trail is
	// read under the owning shipment's tenant id.
	events, err := s.eventRepo.ListByTracking(ctx, shipment.TenantID, trackingNumber)
	if err != nil {
		return nil, common.NewInternalError(err)
	}

	projection := &models.PublicTracking{
		TrackingNumber:    shipment.TrackingNumber,
		Status:            shipment.Status,
		ServiceType:       shipment.ServiceType,
		EstimatedDelivery: shipment.EstimatedDelivery,
	}
	for _, event := range events {
		projection.Events = append(projection.Events, models.PublicTrackingEvent{
			Status:    event.Status,
			Location:  event.Location,
			Timestamp: event.Timestamp,
		})
	}
	return projection, nil
}

func validateAddress(addr models.Address, field string) error {
	if err := common.ValidateRequiredString(addr.Name, field+" name"); err != nil {
		return common.NewValidationError(err.Error())
	}
	if err := common.ValidateRequiredString(addr.Line1, field+" address line"); err != nil {
		return common.NewValidationError(err.Error())
	}
	if err := common.ValidateRequiredString(addr.City, field+" city"); err != nil {
		return common.NewValidationError(err.Error())
	}
	return nil
}
