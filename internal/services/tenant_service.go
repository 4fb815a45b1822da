package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"courierhub/internal/common"
	"courierhub/internal/models"
	"courierhub/internal/repositories"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/gommon/random"
)

const tokenTTL = 24 * time.Hour

type SignupRequest struct {
	Name       string `json:"name"`
	AdminEmail string `json:"admin_email"`
	Plan       string `json:"plan"`
}

type SignupResponse struct {
	Tenant *models.Tenant `json:"tenant"`
	APIKey string         `json:"api_key"`
	Token  string         `json:"token"`
}

type LoginRequest struct {
	Email  string `json:"email"`
	APIKey string `json:"api_key"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	TenantID  uuid.UUID `json:"tenant_id"`
	Plan      string    `json:"plan"`
	ExpiresAt time.Time `json:"expires_at"`
}

// TenantService resolves principals to tenant scopes and owns tenant
// onboarding. Credential verification against an external identity
// provider is out of scope; the API key acts as the tenant credential.
type TenantService interface {
	Signup(ctx context.Context, req *SignupRequest) (*SignupResponse, error)
	Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error)
	// Resolve maps an authenticated principal to its tenant scope.
	// It distinguishes a missing mapping (TenantNotFound) from a missing
	// principal (Unauthenticated), which the middleware raises earlier.
	Resolve(ctx context.Context, principalID uuid.UUID) (common.TenantContext, error)
	// ResolveAPIKey maps an X-API-Key credential directly to a tenant scope.
	ResolveAPIKey(ctx context.Context, apiKey string) (common.TenantContext, error)
	Get(ctx context.Context, tc common.TenantContext) (*models.Tenant, error)
	UpdatePlan(ctx context.Context, tc common.TenantContext, plan string) (*models.Tenant, error)
	Deactivate(ctx context.Context, tc common.TenantContext) error
	ListActiveTenantIDs(ctx context.Context) ([]uuid.UUID, error)
}

type tenantService struct {
	tenantRepo     repositories.TenantRepository
	tenantUserRepo repositories.TenantUserRepository
	jwtSecret      []byte
	now            func() time.Time
}

func NewTenantService(tenantRepo repositories.TenantRepository, tenantUserRepo repositories.TenantUserRepository, jwtSecret string) TenantService {
	return &tenantService{
		tenantRepo:     tenantRepo,
		tenantUserRepo: tenantUserRepo,
		jwtSecret:      []byte(jwtSecret),
		now:            time.Now,
	}
}

func (s *tenantService) Signup(ctx context.Context, req *SignupRequest) (*SignupResponse, error) {
	if err := common.ValidateRequiredString(req.Name, "name"); err != nil {
		return nil, common.NewValidationError(err.Error())
	}
	if err := common.ValidateRequiredString(req.AdminEmail, "admin_email"); err != nil {
		return nil, common.NewValidationError(err.Error())
	}
	plan := req.Plan
	if plan == "" {
		plan = models.PlanFree
	}
	if !models.ValidPlan(plan) {
		return nil, common.NewValidationError("plan must be one of: free, pro, enterprise")
	}

	if existing, err := s.tenantUserRepo.GetByEmail(ctx, strings.ToLower(req.AdminEmail)); err == nil && existing != nil {
		return nil, common.NewConflictError("email already registered")
	}

	apiKey := "chk_" + random.String(32, random.Alphanumeric)
	tenant := &models.Tenant{
		ID:               uuid.New(),
		Name:             req.Name,
		APIKey:           apiKey,
		Plan:             plan,
		EnabledServices:  []string{models.ServiceStandard, models.ServiceExpress, models.ServiceOvernight},
		OnboardingStatus: models.OnboardingPending,
		Status:           "active",
	}
	if err := s.tenantRepo.Create(ctx, tenant); err != nil {
		return nil, common.NewInternalError(err)
	}

	admin := &models.TenantUser{
		ID:       uuid.New(),
		TenantID: tenant.ID,
		UserID:   uuid.New(),
		Email:    strings.ToLower(req.AdminEmail),
		Role:     "admin",
	}
	if err := s.tenantUserRepo.Create(ctx, admin); err != nil {
		return nil, common.NewInternalError(err)
	}

	token, _, err := s.issueToken(admin.UserID)
	if err != nil {
		return nil, common.NewInternalError(err)
	}

	return &SignupResponse{Tenant: tenant, APIKey: apiKey, Token: token}, nil
}

func (s *tenantService) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	if req.Email == "" || req.APIKey == "" {
		return nil, common.NewValidationError("email and api_key are required")
	}

	user, err := s.tenantUserRepo.GetByEmail(ctx, strings.ToLower(req.Email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewUnauthenticatedError()
		}
		return nil, common.NewInternalError(err)
	}

	tenant, err := s.tenantRepo.GetByID(ctx, user.TenantID)
	if err != nil {
		return nil, common.NewInternalError(err)
	}
	if tenant.APIKey != req.APIKey {
		return nil, common.NewUnauthenticatedError()
	}
	if tenant.Status != "active" {
		return nil, common.NewForbiddenError("tenant is deactivated")
	}

	// First successful login completes onboarding.
	if tenant.OnboardingStatus == models.OnboardingPending {
		tenant.OnboardingStatus = models.OnboardingActive
		if err := s.tenantRepo.Update(ctx, tenant); err != nil {
			return nil, common.NewInternalError(err)
		}
	}

	token, expiresAt, err := s.issueToken(user.UserID)
	if err != nil {
		return nil, common.NewInternalError(err)
	}

	return &LoginResponse{
		Token:     token,
		TenantID:  tenant.ID,
		Plan:      tenant.Plan,
		ExpiresAt: expiresAt,
	}, nil
}

func (s *tenantService) issueToken(userID uuid.UUID) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(tokenTTL)
	claims := jwt.RegisteredClaims{
		Issuer:    "courierhub",
		Subject:   userID.String(),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(now),
		ID:        uuid.NewString(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	return token, expiresAt, err
}

func (s *tenantService) Resolve(ctx context.Context, principalID uuid.UUID) (common.TenantContext, error) {
	tenantID, err := s.tenantUserRepo.GetTenantIDByUserID(ctx, principalID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.TenantContext{}, common.NewTenantNotFoundError()
		}
		return common.TenantContext{}, common.NewInternalError(err)
	}

	tenant, err := s.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.TenantContext{}, common.NewTenantNotFoundError()
		}
		return common.TenantContext{}, common.NewInternalError(err)
	}
	if tenant.Status != "active" {
		return common.TenantContext{}, common.NewTenantNotFoundError()
	}

	return common.TenantContext{TenantID: tenant.ID, Plan: tenant.Plan}, nil
}

func (s *tenantService) ResolveAPIKey(ctx context.Context, apiKey string) (common.TenantContext, error) {
	tenant, err := s.tenantRepo.GetByAPIKey(ctx, apiKey)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.TenantContext{}, common.NewTenantNotFoundError()
		}
		return common.TenantContext{}, common.NewInternalError(err)
	}
	if tenant.Status != "active" {
		return common.TenantContext{}, common.NewTenantNotFoundError()
	}
	return common.TenantContext{TenantID: tenant.ID, Plan: tenant.Plan}, nil
}

func (s *tenantService) Get(ctx context.Context, tc common.TenantContext) (*models.Tenant, error) {
	tenant, err := s.tenantRepo.GetByID(ctx, tc.TenantID)
	if err != nil {
		return nil, common.NewInternalError(err)
	}
	return tenant, nil
}

func (s *tenantService) UpdatePlan(ctx context.Context, tc common.TenantContext, plan string) (*models.Tenant, error) {
	if !models.ValidPlan(plan) {
		return nil, common.NewValidationError("plan must be one of: free, pro, enterprise")
	}

	tenant, err := s.tenantRepo.GetByID(ctx, tc.TenantID)
	if err != nil {
		return nil, common.NewInternalError(err)
	}

	tenant.Plan = plan
	if err := s.tenantRepo.Update(ctx, tenant); err != nil {
		return nil, common.NewInternalError(err)
	}
	return tenant, nil
}

func (s *tenantService) Deactivate(ctx context.Context, tc common.TenantContext) error {
	if err := s.tenantRepo.Deactivate(ctx, tc.TenantID); err != nil {
		return common.NewInternalError(err)
	}
	return nil
}

func (s *tenantService) ListActiveTenantIDs(ctx context.Context) ([]uuid.UUID, error) {
	tenants, err := s.tenantRepo.List(ctx, 1000, 0)
	if err != nil {
		return nil, err
	}
	var ids []uuid.UUID
	for _, tenant := range tenants {
		if tenant.Status == "active" {
			ids = append(ids, tenant.ID)
		}
	}
	return ids, nil
}
