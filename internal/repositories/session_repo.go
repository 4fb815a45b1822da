package repositories

import (
	"context"

	"courierhub/internal/models"

	"github.com/google/uuid"
)

type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	GetBySessionID(ctx context.Context, tenantID, sessionID uuid.UUID) (*models.Session, error)
	// GetActive returns the active session for a (tenant, user, channel)
	// tuple, newest first when several exist.
	GetActive(ctx context.Context, tenantID uuid.UUID, userID, channel string) (*models.Session, error)
	Update(ctx context.Context, session *models.Session) error
	Delete(ctx context.Context, tenantID, sessionID uuid.UUID) error
	// DeactivateExpired flips is_active on every row past its expiry and
	// returns how many rows were touched. Used by the background reaper.
	DeactivateExpired(ctx context.Context) (int64, error)
}

type sessionRepo struct {
	db DB
}

func NewSessionRepo(db DB) SessionRepository {
	return &sessionRepo{db: db}
}

const sessionColumns = `id, tenant_id, session_id, user_id, channel, data, created_at, updated_at, expires_at, is_active`

func (r *sessionRepo) Create(ctx context.Context, session *models.Session) error {
	query := `
		INSERT INTO sessions (id, tenant_id, session_id, user_id, channel, data, created_at, updated_at, expires_at, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW(), $7, $8)
	`
	_, err := r.db.Exec(ctx, query, session.ID, session.TenantID, session.SessionID, session.UserID, session.Channel, session.Data, session.ExpiresAt, session.IsActive)
	return err
}

func (r *sessionRepo) GetBySessionID(ctx context.Context, tenantID, sessionID uuid.UUID) (*models.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE tenant_id = $1 AND session_id = $2
	`
	return r.scanSession(r.db.QueryRow(ctx, query, tenantID, sessionID))
}

func (r *sessionRepo) GetActive(ctx context.Context, tenantID uuid.UUID, userID, channel string) (*models.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE tenant_id = $1 AND user_id = $2 AND channel = $3 AND is_active = TRUE
		ORDER BY created_at DESC
		LIMIT 1
	`
	return r.scanSession(r.db.QueryRow(ctx, query, tenantID, userID, channel))
}

func (r *sessionRepo) Update(ctx context.Context, session *models.Session) error {
	query := `
		UPDATE sessions
		SET data = $1, expires_at = $2, is_active = $3, updated_at = NOW()
		WHERE tenant_id = $4 AND session_id = $5
	`
	_, err := r.db.Exec(ctx, query, session.Data, session.ExpiresAt, session.IsActive, session.TenantID, session.SessionID)
	return err
}

func (r *sessionRepo) Delete(ctx context.Context, tenantID, sessionID uuid.UUID) error {
	query := `DELETE FROM sessions WHERE tenant_id = $1 AND session_id = $2`
	_, err := r.db.Exec(ctx, query, tenantID, sessionID)
	return err
}

func (r *sessionRepo) DeactivateExpired(ctx context.Context) (int64, error) {
	query := `UPDATE sessions SET is_active = FALSE, updated_at = NOW() WHERE is_active = TRUE AND expires_at < NOW()`
	tag, err := r.db.Exec(ctx, query)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *sessionRepo) scanSession(row interface{ Scan(dest ...any) error }) (*models.Session, error) {
	session := &models.Session{}
	err := row.Scan(&session.ID, &session.TenantID, &session.SessionID, &session.UserID, &session.Channel, &session.Data, &session.CreatedAt, &session.UpdatedAt, &session.ExpiresAt, &session.IsActive)
	if err != nil {
		return nil, err
	}
	return session, nil
}
