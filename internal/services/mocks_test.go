package services

import (
	"context"
	"io"
	"time"

	"courierhub/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockTenantRepository struct {
	mock.Mock
}

func (m *MockTenantRepository) Create(ctx context.Context, tenant *models.Tenant) error {
	args := m.Called(ctx, tenant)
	return args.Error(0)
}

func (m *MockTenantRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *MockTenantRepository) GetByAPIKey(ctx context.Context, apiKey string) (*models.Tenant, error) {
	args := m.Called(ctx, apiKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *MockTenantRepository) Update(ctx context.Context, tenant *models.Tenant) error {
	args := m.Called(ctx, tenant)
	return args.Error(0)
}

func (m *MockTenantRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTenantRepository) List(ctx context.Context, limit, offset int) ([]*models.Tenant, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Tenant), args.Error(1)
}

type MockTenantUserRepository struct {
	mock.Mock
}

func (m *MockTenantUserRepository) Create(ctx context.Context, tu *models.TenantUser) error {
	args := m.Called(ctx, tu)
	return args.Error(0)
}

func (m *MockTenantUserRepository) GetTenantIDByUserID(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockTenantUserRepository) GetByEmail(ctx context.Context, email string) (*models.TenantUser, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TenantUser), args.Error(1)
}

func (m *MockTenantUserRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.TenantUser, error) {
	args := m.Called(ctx, tenantID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.TenantUser), args.Error(1)
}

type MockShipmentRepository struct {
	mock.Mock
}

func (m *MockShipmentRepository) Create(ctx context.Context, shipment *models.Shipment) error {
	args := m.Called(ctx, shipment)
	return args.Error(0)
}

func (m *MockShipmentRepository) GetByTracking(ctx context.Context, tenantID uuid.UUID, trackingNumber string) (*models.Shipment, error) {
	args := m.Called(ctx, tenantID, trackingNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Shipment), args.Error(1)
}

func (m *MockShipmentRepository) GetByTrackingAnyTenant(ctx context.Context, trackingNumber string) (*models.Shipment, error) {
	args := m.Called(ctx, trackingNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Shipment), args.Error(1)
}

func (m *MockShipmentRepository) UpdateStatus(ctx context.Context, tenantID uuid.UUID, trackingNumber, fromStatus, toStatus string) (int64, error) {
	args := m.Called(ctx, tenantID, trackingNumber, fromStatus, toStatus)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockShipmentRepository) TrackingExists(ctx context.Context, tenantID uuid.UUID, trackingNumber string) (bool, error) {
	args := m.Called(ctx, tenantID, trackingNumber)
	return args.Bool(0), args.Error(1)
}

func (m *MockShipmentRepository) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Shipment, error) {
	args := m.Called(ctx, tenantID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Shipment), args.Error(1)
}

type MockShipmentEventRepository struct {
	mock.Mock
}

func (m *MockShipmentEventRepository) Append(ctx context.Context, event *models.ShipmentEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockShipmentEventRepository) ListByTracking(ctx context.Context, tenantID uuid.UUID, trackingNumber string) ([]*models.ShipmentEvent, error) {
	args := m.Called(ctx, tenantID, trackingNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ShipmentEvent), args.Error(1)
}

type MockRateRepository struct {
	mock.Mock
}

func (m *MockRateRepository) Upsert(ctx context.Context, rate *models.Rate) error {
	args := m.Called(ctx, rate)
	return args.Error(0)
}

func (m *MockRateRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*models.Rate, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Rate), args.Error(1)
}

func (m *MockRateRepository) ListByService(ctx context.Context, tenantID uuid.UUID, serviceType string) ([]*models.Rate, error) {
	args := m.Called(ctx, tenantID, serviceType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Rate), args.Error(1)
}

type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Create(ctx context.Context, session *models.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepository) GetBySessionID(ctx context.Context, tenantID, sessionID uuid.UUID) (*models.Session, error) {
	args := m.Called(ctx, tenantID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *MockSessionRepository) GetActive(ctx context.Context, tenantID uuid.UUID, userID, channel string) (*models.Session, error) {
	args := m.Called(ctx, tenantID, userID, channel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *MockSessionRepository) Update(ctx context.Context, session *models.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepository) Delete(ctx context.Context, tenantID, sessionID uuid.UUID) error {
	args := m.Called(ctx, tenantID, sessionID)
	return args.Error(0)
}

func (m *MockSessionRepository) DeactivateExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockCacheService is a pass-through cache double: misses on every read,
// accepts every write.
type MockCacheService struct{}

func (m *MockCacheService) GetRates(ctx context.Context, tenantID uuid.UUID, serviceType string) ([]*models.Rate, error) {
	return nil, nil
}

func (m *MockCacheService) SetRates(ctx context.Context, tenantID uuid.UUID, serviceType string, rates []*models.Rate, ttl time.Duration) error {
	return nil
}

func (m *MockCacheService) InvalidateRates(ctx context.Context, tenantID uuid.UUID) error {
	return nil
}

func (m *MockCacheService) GetSession(ctx context.Context, tenantID, sessionID uuid.UUID) (*models.Session, error) {
	return nil, nil
}

func (m *MockCacheService) SetSession(ctx context.Context, session *models.Session, ttl time.Duration) error {
	return nil
}

func (m *MockCacheService) DeleteSession(ctx context.Context, tenantID, sessionID uuid.UUID) error {
	return nil
}

func (m *MockCacheService) IncrementWindow(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	return 1, nil
}

func (m *MockCacheService) Ping(ctx context.Context) error {
	return nil
}

type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) Upload(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, contentType string) error {
	args := m.Called(ctx, bucketName, objectName, reader, objectSize, contentType)
	return args.Error(0)
}

func (m *MockObjectStorage) GetPresignedURL(ctx context.Context, bucketName, objectName string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, bucketName, objectName, expiry)
	return args.String(0), args.Error(1)
}

func (m *MockObjectStorage) EnsureBucketExists(ctx context.Context, bucketName string) error {
	args := m.Called(ctx, bucketName)
	return args.Error(0)
}
