package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"courierhub/internal/models"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type ShipmentRepoTestSuite struct {
	suite.Suite
	mock      pgxmock.PgxPoolIface
	repo      ShipmentRepository
	tenantID1 uuid.UUID
	tenantID2 uuid.UUID
	context   context.Context
}

func (suite *ShipmentRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewShipmentRepo(mock)
	suite.tenantID1 = uuid.New()
	suite.tenantID2 = uuid.New()
	suite.context = context.Background()
}

func (suite *ShipmentRepoTestSuite) TearDownTest() {
	suite.mock.Close()
}

func TestShipmentRepoTestSuite(t *testing.T) {
	suite.Run(t, new(ShipmentRepoTestSuite))
}

func (suite *ShipmentRepoTestSuite) sampleShipment(tenantID uuid.UUID) *models.Shipment {
	return &models.Shipment{
		ID:                uuid.New(),
		TenantID:          tenantID,
		TrackingNumber:    "CHTEST0001",
		Sender:            models.Address{Name: "Acme Warehouse", Line1: "12 Dock Rd", City: "Rotterdam", Country: "NL"},
		Receiver:          models.Address{Name: "Jane Doe", Line1: "4 Elm St", City: "Antwerp", Country: "BE"},
		Parcel:            models.Parcel{Weight: 2.5},
		ServiceType:       models.ServiceStandard,
		Status:            models.StatusCreated,
		EstimatedDelivery: time.Now().AddDate(0, 0, 5),
	}
}

func shipmentRowColumns() []string {
	return []string{"id", "tenant_id", "tracking_number", "sender", "receiver", "parcel", "service_type", "status", "estimated_delivery", "created_at", "updated_at"}
}

func (suite *ShipmentRepoTestSuite) addShipmentRow(rows *pgxmock.Rows, shipment *models.Shipment) *pgxmock.Rows {
	now := time.Now()
	return rows.AddRow(shipment.ID, shipment.TenantID, shipment.TrackingNumber, shipment.Sender, shipment.Receiver, shipment.Parcel, shipment.ServiceType, shipment.Status, shipment.EstimatedDelivery, now, now)
}

func (suite *ShipmentRepoTestSuite) TestCreate_Success() {
	shipment := suite.sampleShipment(suite.tenantID1)

	suite.mock.ExpectExec(`INSERT INTO shipments \(id, tenant_id, tracking_number, sender, receiver, parcel, service_type, status, estimated_delivery, created_at, updated_at\)\s+VALUES \(\$1, \$2, \$3, \$4, \$5, \$6, \$7, \$8, \$9, NOW\(\), NOW\(\)\)`).
		WithArgs(shipment.ID, shipment.TenantID, shipment.TrackingNumber, shipment.Sender, shipment.Receiver, shipment.Parcel, shipment.ServiceType, shipment.Status, shipment.EstimatedDelivery).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := suite.repo.Create(suite.context, shipment)
	assert.NoError(suite.T(), err)
}

func (suite *ShipmentRepoTestSuite) TestCreate_DatabaseError() {
	shipment := suite.sampleShipment(suite.tenantID1)

	suite.mock.ExpectExec(`INSERT INTO shipments`).
		WithArgs(shipment.ID, shipment.TenantID, shipment.TrackingNumber, shipment.Sender, shipment.Receiver, shipment.Parcel, shipment.ServiceType, shipment.Status, shipment.EstimatedDelivery).
		WillReturnError(errors.New("database connection failed"))

	err := suite.repo.Create(suite.context, shipment)
	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "database connection failed")
}

func (suite *ShipmentRepoTestSuite) TestGetByTracking_ScopedToTenant() {
	shipment := suite.sampleShipment(suite.tenantID1)
	rows := suite.addShipmentRow(pgxmock.NewRows(shipmentRowColumns()), shipment)

	suite.mock.ExpectQuery(`SELECT .+\s+FROM shipments\s+WHERE tenant_id = \$1 AND tracking_number = \$2`).
		WithArgs(suite.tenantID1, shipment.TrackingNumber).
		WillReturnRows(rows)

	result, err := suite.repo.GetByTracking(suite.context, suite.tenantID1, shipment.TrackingNumber)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), shipment.TrackingNumber, result.TrackingNumber)
	assert.Equal(suite.T(), suite.tenantID1, result.TenantID)
}

func (suite *ShipmentRepoTestSuite) TestGetByTracking_WrongTenant() {
	// The same tracking number exists under tenant 1; tenant 2 must not see it.
	suite.mock.ExpectQuery(`SELECT .+\s+FROM shipments\s+WHERE tenant_id = \$1 AND tracking_number = \$2`).
		WithArgs(suite.tenantID2, "CHTEST0001").
		WillReturnError(pgx.ErrNoRows)

	result, err := suite.repo.GetByTracking(suite.context, suite.tenantID2, "CHTEST0001")
	assert.Error(suite.T(), err)
	assert.ErrorIs(suite.T(), err, pgx.ErrNoRows)
	assert.Nil(suite.T(), result)
}

func (suite *ShipmentRepoTestSuite) TestUpdateStatus_CAS() {
	suite.mock.ExpectExec(`UPDATE shipments\s+SET status = \$1, updated_at = NOW\(\)\s+WHERE tenant_id = \$2 AND tracking_number = \$3 AND status = \$4`).
		WithArgs(models.StatusPickedUp, suite.tenantID1, "CHTEST0001", models.StatusCreated).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	affected, err := suite.repo.UpdateStatus(suite.context, suite.tenantID1, "CHTEST0001", models.StatusCreated, models.StatusPickedUp)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(1), affected)
}

func (suite *ShipmentRepoTestSuite) TestUpdateStatus_GuardMismatch() {
	// The stored status moved on after our read; the guarded update is a no-op.
	suite.mock.ExpectExec(`UPDATE shipments\s+SET status = \$1, updated_at = NOW\(\)\s+WHERE tenant_id = \$2 AND tracking_number = \$3 AND status = \$4`).
		WithArgs(models.StatusPickedUp, suite.tenantID1, "CHTEST0001", models.StatusCreated).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	affected, err := suite.repo.UpdateStatus(suite.context, suite.tenantID1, "CHTEST0001", models.StatusCreated, models.StatusPickedUp)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(0), affected)
}

func (suite *ShipmentRepoTestSuite) TestTrackingExists() {
	suite.mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM shipments WHERE tenant_id = \$1 AND tracking_number = \$2\)`).
		WithArgs(suite.tenantID1, "CHTEST0001").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := suite.repo.TrackingExists(suite.context, suite.tenantID1, "CHTEST0001")
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), exists)
}

func (suite *ShipmentRepoTestSuite) TestList_ScopedToTenant() {
	first := suite.sampleShipment(suite.tenantID1)
	second := suite.sampleShipment(suite.tenantID1)
	second.TrackingNumber = "CHTEST0002"

	rows := pgxmock.NewRows(shipmentRowColumns())
	suite.addShipmentRow(rows, first)
	suite.addShipmentRow(rows, second)

	suite.mock.ExpectQuery(`SELECT .+\s+FROM shipments\s+WHERE tenant_id = \$1\s+ORDER BY created_at DESC\s+LIMIT \$2 OFFSET \$3`).
		WithArgs(suite.tenantID1, 10, 0).
		WillReturnRows(rows)

	result, err := suite.repo.List(suite.context, suite.tenantID1, 10, 0)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), result, 2)
	assert.Equal(suite.T(), "CHTEST0001", result[0].TrackingNumber)
	assert.Equal(suite.T(), "CHTEST0002", result[1].TrackingNumber)
}

func (suite *ShipmentRepoTestSuite) TestList_Empty() {
	suite.mock.ExpectQuery(`SELECT .+\s+FROM shipments\s+WHERE tenant_id = \$1\s+ORDER BY created_at DESC\s+LIMIT \$2 OFFSET \$3`).
		WithArgs(suite.tenantID2, 10, 0).
		WillReturnRows(pgxmock.NewRows(shipmentRowColumns()))

	result, err := suite.repo.List(suite.context, suite.tenantID2, 10, 0)
	assert.NoError(suite.T(), err)
	assert.Empty(suite.T(), result)
}
