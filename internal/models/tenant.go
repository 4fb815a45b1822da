package models

import (
	"time"

	"github.com/google/uuid"
)

// Plan tiers control the per-minute request quota for a tenant.
const (
	PlanFree       = "free"
	PlanPro        = "pro"
	PlanEnterprise = "enterprise"
)

// Onboarding states for a newly signed-up tenant.
const (
	OnboardingPending = "pending"
	OnboardingActive  = "active"
)

type Tenant struct {
	ID               uuid.UUID `json:"id" db:"id"`
	Name             string    `json:"name" db:"name"`
	APIKey           string    `json:"-" db:"api_key"`
	Plan             string    `json:"plan" db:"plan"`
	EnabledServices  []string  `json:"enabled_services" db:"enabled_services"`
	OnboardingStatus string    `json:"onboarding_status" db:"onboarding_status"`
	Status           string    `json:"status" db:"status"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}

// ValidPlan reports whether plan is one of the supported tiers.
func ValidPlan(plan string) bool {
	return plan == PlanFree || plan == PlanPro || plan == PlanEnterprise
}

// TenantUser maps an authenticated principal (user) to its tenant.
type TenantUser struct {
	ID        uuid.UUID `json:"id" db:"id"`
	TenantID  uuid.UUID `json:"tenant_id" db:"tenant_id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Email     string    `json:"email" db:"email"`
	Role      string    `json:"role" db:"role"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
