package repositories

import (
	"context"

	"courierhub/internal/models"

	"github.com/google/uuid"
)

type TenantUserRepository interface {
	Create(ctx context.Context, tu *models.TenantUser) error
	GetTenantIDByUserID(ctx context.Context, userID uuid.UUID) (uuid.UUID, error)
	GetByEmail(ctx context.Context, email string) (*models.TenantUser, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.TenantUser, error)
}

type tenantUserRepo struct {
	db DB
}

func NewTenantUserRepo(db DB) TenantUserRepository {
	return &tenantUserRepo{db: db}
}

func (r *tenantUserRepo) Create(ctx context.Context, tu *models.TenantUser) error {
	query := `
		INSERT INTO tenant_users (id, tenant_id, user_id, email, role, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`
	_, err := r.db.Exec(ctx, query, tu.ID, tu.TenantID, tu.UserID, tu.Email, tu.Role)
	return err
}

func (r *tenantUserRepo) GetTenantIDByUserID(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	var tenantID uuid.UUID
	query := `SELECT tenant_id FROM tenant_users WHERE user_id = $1`
	err := r.db.QueryRow(ctx, query, userID).Scan(&tenantID)
	if err != nil {
		return uuid.Nil, err
	}
	return tenantID, nil
}

func (r *tenantUserRepo) GetByEmail(ctx context.Context, email string) (*models.TenantUser, error) {
	tu := &models.TenantUser{}
	query := `
		SELECT id, tenant_id, user_id, email, role, created_at
		FROM tenant_users
		WHERE email = $1
	`
	err := r.db.QueryRow(ctx, query, email).Scan(&tu.ID, &tu.TenantID, &tu.UserID, &tu.Email, &tu.Role, &tu.CreatedAt)
	if err != nil {
		return nil, err
	}
	return tu, nil
}

func (r *tenantUserRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.TenantUser, error) {
	query := `
		SELECT id, tenant_id, user_id, email, role, created_at
		FROM tenant_users
		WHERE tenant_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.TenantUser
	for rows.Next() {
		tu := &models.TenantUser{}
		if err := rows.Scan(&tu.ID, &tu.TenantID, &tu.UserID, &tu.Email, &tu.Role, &tu.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, tu)
	}
	return users, rows.Err()
}
