package models

import (
	"time"

	"github.com/google/uuid"
)

// Service types offered by the courier.
const (
	ServiceStandard  = "standard"
	ServiceExpress   = "express"
	ServiceOvernight = "overnight"
)

// ValidServiceType reports whether serviceType is a supported service.
func ValidServiceType(serviceType string) bool {
	return serviceType == ServiceStandard || serviceType == ServiceExpress || serviceType == ServiceOvernight
}

// Rate is one weight bracket of a tenant's rate table for a service type.
type Rate struct {
	ID                  uuid.UUID `json:"id" db:"id"`
	TenantID            uuid.UUID `json:"tenant_id" db:"tenant_id"`
	ServiceType         string    `json:"service_type" db:"service_type"`
	BaseRate            float64   `json:"base_rate" db:"base_rate"`
	AdditionalKgRate    float64   `json:"additional_kg_rate" db:"additional_kg_rate"`
	MinWeight           float64   `json:"min_weight" db:"min_weight"`
	MaxWeight           float64   `json:"max_weight" db:"max_weight"`
	VolumetricDivisor   float64   `json:"volumetric_divisor" db:"volumetric_divisor"`
	FuelSurchargePct    float64   `json:"fuel_surcharge_percent" db:"fuel_surcharge_percent"`
	RemoteSurcharge     float64   `json:"remote_surcharge" db:"remote_surcharge"`
	Currency            string    `json:"currency" db:"currency"`
	CreatedAt           time.Time `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time `json:"updated_at" db:"updated_at"`
}

// Quote is the result of a rate calculation.
type Quote struct {
	ServiceType           string  `json:"service_type"`
	Weight                float64 `json:"weight"`
	VolumetricWeight      float64 `json:"volumetric_weight,omitempty"`
	ChargeableWeight      float64 `json:"chargeable_weight"`
	BaseCost              float64 `json:"base_cost"`
	FuelSurcharge         float64 `json:"fuel_surcharge"`
	RemoteSurcharge       float64 `json:"remote_surcharge,omitempty"`
	Total                 float64 `json:"total"`
	Currency              string  `json:"currency"`
	EstimatedDeliveryDays string  `json:"estimated_delivery_days"`
}
