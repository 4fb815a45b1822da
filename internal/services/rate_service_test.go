package services

import (
	"context"
	"testing"
	"time"

	"courierhub/internal/common"
	"courierhub/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type RateServiceTestSuite struct {
	suite.Suite
	mockRepo *MockRateRepository
	service  RateService
	tc       common.TenantContext
	ctx      context.Context
}

func (s *RateServiceTestSuite) SetupTest() {
	s.mockRepo = new(MockRateRepository)
	s.service = NewRateService(s.mockRepo, &MockCacheService{})
	s.tc = common.TenantContext{TenantID: uuid.New(), Plan: models.PlanFree}
	s.ctx = context.Background()
}

func (s *RateServiceTestSuite) TearDownTest() {
	s.mockRepo.AssertExpectations(s.T())
}

func float64Ptr(v float64) *float64 {
	return &v
}

func standardBracket(tenantID uuid.UUID) *models.Rate {
	return &models.Rate{
		ID:                uuid.New(),
		TenantID:          tenantID,
		ServiceType:       models.ServiceStandard,
		BaseRate:          10,
		AdditionalKgRate:  2,
		MinWeight:         0,
		MaxWeight:         30,
		VolumetricDivisor: 5000,
		Currency:          "USD",
	}
}

func (s *RateServiceTestSuite) TestQuoteStandardFiveKg() {
	s.mockRepo.On("ListByService", s.ctx, s.tc.TenantID, models.ServiceStandard).
		Return([]*models.Rate{standardBracket(s.tc.TenantID)}, nil)

	quote, err := s.service.Quote(s.ctx, s.tc, &QuoteRequest{
		Weight:      5,
		ServiceType: models.ServiceStandard,
	})

	s.NoError(err)
	// base 10 + 4 extra kg at 2 each
	s.InDelta(18.0, quote.Total, 1e-9)
	s.InDelta(5.0, quote.ChargeableWeight, 1e-9)
	s.Equal("USD", quote.Currency)
	s.Equal("3-5 days", quote.EstimatedDeliveryDays)
}

func (s *RateServiceTestSuite) TestQuoteOvernightBaseCoversFirstKg() {
	bracket := &models.Rate{
		ID:               uuid.New(),
		TenantID:         s.tc.TenantID,
		ServiceType:      models.ServiceOvernight,
		BaseRate:         35,
		AdditionalKgRate: 8,
		MinWeight:        0,
		MaxWeight:        10,
		Currency:         "USD",
	}
	s.mockRepo.On("ListByService", s.ctx, s.tc.TenantID, models.ServiceOvernight).
		Return([]*models.Rate{bracket}, nil)

	quote, err := s.service.Quote(s.ctx, s.tc, &QuoteRequest{
		Weight:      1,
		ServiceType: models.ServiceOvernight,
	})

	s.NoError(err)
	s.InDelta(35.0, quote.Total, 1e-9)
	s.Equal("1 day", quote.EstimatedDeliveryDays)
}

func (s *RateServiceTestSuite) TestQuoteFractionalWeight() {
	bracket := standardBracket(s.tc.TenantID)
	bracket.AdditionalKgRate = 2.5
	s.mockRepo.On("ListByService", s.ctx, s.tc.TenantID, models.ServiceStandard).
		Return([]*models.Rate{bracket}, nil)

	quote, err := s.service.Quote(s.ctx, s.tc, &QuoteRequest{
		Weight:      2.5,
		ServiceType: models.ServiceStandard,
	})

	s.NoError(err)
	// 10 + 1.5 * 2.5, no rounding of the fractional kilograms
	s.InDelta(13.75, quote.Total, 1e-9)
}

func (s *RateServiceTestSuite) TestQuoteVolumetricWeightWins() {
	s.mockRepo.On("ListByService", s.ctx, s.tc.TenantID, models.ServiceStandard).
		Return([]*models.Rate{standardBracket(s.tc.TenantID)}, nil)

	// 50x40x30 / 5000 = 12 kg volumetric against 2 kg actual.
	quote, err := s.service.Quote(s.ctx, s.tc, &QuoteRequest{
		Weight:      2,
		Length:      float64Ptr(50),
		Width:       float64Ptr(40),
		Height:      float64Ptr(30),
		ServiceType: models.ServiceStandard,
	})

	s.NoError(err)
	s.InDelta(12.0, quote.VolumetricWeight, 1e-9)
	s.InDelta(12.0, quote.ChargeableWeight, 1e-9)
	s.InDelta(32.0, quote.Total, 1e-9)
}

func (s *RateServiceTestSuite) TestQuoteFuelAndRemoteSurcharge() {
	bracket := standardBracket(s.tc.TenantID)
	bracket.FuelSurchargePct = 10
	bracket.RemoteSurcharge = 7.5
	s.mockRepo.On("ListByService", s.ctx, s.tc.TenantID, models.ServiceStandard).
		Return([]*models.Rate{bracket}, nil)

	quote, err := s.service.Quote(s.ctx, s.tc, &QuoteRequest{
		Weight:            5,
		ServiceType:       models.ServiceStandard,
		RemoteDestination: true,
	})

	s.NoError(err)
	s.InDelta(18.0, quote.BaseCost, 1e-9)
	s.InDelta(1.8, quote.FuelSurcharge, 1e-9)
	s.InDelta(7.5, quote.RemoteSurcharge, 1e-9)
	s.InDelta(27.3, quote.Total, 1e-9)
}

func (s *RateServiceTestSuite) TestQuoteNoBracketConfigured() {
	bracket := standardBracket(s.tc.TenantID)
	bracket.MaxWeight = 10
	s.mockRepo.On("ListByService", s.ctx, s.tc.TenantID, models.ServiceStandard).
		Return([]*models.Rate{bracket}, nil)

	quote, err := s.service.Quote(s.ctx, s.tc, &QuoteRequest{
		Weight:      50,
		ServiceType: models.ServiceStandard,
	})

	s.Nil(quote)
	s.True(common.IsCode(err, common.CodeRateNotConfigured))
}

func (s *RateServiceTestSuite) TestQuoteRejectsInvalidInput() {
	cases := []struct {
		name string
		req  *QuoteRequest
	}{
		{"zero weight", &QuoteRequest{Weight: 0, ServiceType: models.ServiceStandard}},
		{"negative weight", &QuoteRequest{Weight: -1, ServiceType: models.ServiceStandard}},
		{"unknown service", &QuoteRequest{Weight: 1, ServiceType: "drone"}},
		{"negative dimension", &QuoteRequest{Weight: 1, Length: float64Ptr(-5), Width: float64Ptr(10), Height: float64Ptr(10), ServiceType: models.ServiceStandard}},
	}
	for _, tc := range cases {
		quote, err := s.service.Quote(s.ctx, s.tc, tc.req)
		s.Nil(quote, tc.name)
		s.True(common.IsCode(err, common.CodeValidation), tc.name)
	}
}

func (s *RateServiceTestSuite) TestUpsertRateValidation() {
	err := s.service.UpsertRate(s.ctx, s.tc, &models.Rate{
		ServiceType: models.ServiceStandard,
		MinWeight:   10,
		MaxWeight:   5,
	})
	s.True(common.IsCode(err, common.CodeValidation))
}

func (s *RateServiceTestSuite) TestUpsertRateScopesToTenant() {
	rate := standardBracket(uuid.New())
	s.mockRepo.On("Upsert", s.ctx, rate).Return(nil)

	err := s.service.UpsertRate(s.ctx, s.tc, rate)

	s.NoError(err)
	s.Equal(s.tc.TenantID, rate.TenantID)
}

func (s *RateServiceTestSuite) TestDeliveryDeadlineUsesUpperBound() {
	from := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	eta, err := s.service.DeliveryDeadline(models.ServiceStandard, from)
	s.NoError(err)
	s.Equal(from.AddDate(0, 0, 5), eta)

	eta, err = s.service.DeliveryDeadline(models.ServiceOvernight, from)
	s.NoError(err)
	s.Equal(from.AddDate(0, 0, 1), eta)

	_, err = s.service.DeliveryDeadline("drone", from)
	s.True(common.IsCode(err, common.CodeValidation))
}

func TestRateServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RateServiceTestSuite))
}

func TestCalculateDeterministic(t *testing.T) {
	rates := []*models.Rate{standardBracket(uuid.New())}
	req := &QuoteRequest{Weight: 7.3, ServiceType: models.ServiceStandard}

	first, err := Calculate(req, rates)
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	for i := 0; i < 100; i++ {
		again, err := Calculate(req, rates)
		if err != nil {
			t.Fatalf("calculate: %v", err)
		}
		if again.Total != first.Total {
			t.Fatalf("total changed between runs: %v vs %v", again.Total, first.Total)
		}
	}
}

func TestCalculateMonotonicInWeight(t *testing.T) {
	rates := []*models.Rate{standardBracket(uuid.New())}

	previous := -1.0
	for weight := 0.5; weight <= 30; weight += 0.5 {
		quote, err := Calculate(&QuoteRequest{Weight: weight, ServiceType: models.ServiceStandard}, rates)
		if err != nil {
			t.Fatalf("weight %v: %v", weight, err)
		}
		if quote.Total < previous {
			t.Fatalf("total decreased at weight %v: %v < %v", weight, quote.Total, previous)
		}
		previous = quote.Total
	}
}
