package services

import (
	"context"
	"errors"
	"time"

	"courierhub/internal/caching"
	"courierhub/internal/common"
	"courierhub/internal/models"
	"courierhub/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	defaultSessionTTL = 24 * time.Hour
	// GetOrCreate extends a session that would otherwise expire within
	// this window instead of handing back a nearly-dead one.
	sessionExtendThreshold = time.Hour
)

type SessionService interface {
	Create(ctx context.Context, tc common.TenantContext, userID, channel string, ttlHours int) (*models.Session, error)
	Get(ctx context.Context, tc common.TenantContext, sessionID uuid.UUID) (*models.Session, error)
	Update(ctx context.Context, tc common.TenantContext, sessionID uuid.UUID, data map[string]string, extendHours int) (*models.Session, error)
	Delete(ctx context.Context, tc common.TenantContext, sessionID uuid.UUID) error
	// GetOrCreate returns the active session for (tenant, user, channel),
	// extending it when it is close to expiry and replacing it when it has
	// already expired. Repeated calls inside the TTL window return the
	// same session id.
	GetOrCreate(ctx context.Context, tc common.TenantContext, userID, channel string) (*models.Session, error)
	// ReapExpired deactivates sessions past their expiry; used by the
	// background scheduler, never by the request path.
	ReapExpired(ctx context.Context) (int64, error)
}

type sessionService struct {
	sessionRepo repositories.SessionRepository
	cacheSvc    caching.CacheService
	now         func() time.Time
}

func NewSessionService(sessionRepo repositories.SessionRepository, cacheSvc caching.CacheService) SessionService {
	return &sessionService{
		sessionRepo: sessionRepo,
		cacheSvc:    cacheSvc,
		now:         time.Now,
	}
}

func (s *sessionService) Create(ctx context.Context, tc common.TenantContext, userID, channel string, ttlHours int) (*models.Session, error) {
	if err := common.ValidateRequiredString(userID, "user_id"); err != nil {
		return nil, common.NewValidationError(err.Error())
	}
	if err := common.ValidateRequiredString(channel, "channel"); err != nil {
		return nil, common.NewValidationError(err.Error())
	}

	ttl := defaultSessionTTL
	if ttlHours > 0 {
		ttl = time.Duration(ttlHours) * time.Hour
	}

	now := s.now()
	session := &models.Session{
		ID:        uuid.New(),
		TenantID:  tc.TenantID,
		SessionID: uuid.New(),
		UserID:    userID,
		Channel:   channel,
		Data:      map[string]string{},
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(ttl),
		IsActive:  true,
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, common.NewInternalError(err)
	}

	s.cacheSession(ctx, session)
	return session, nil
}

func (s *sessionService) Get(ctx context.Context, tc common.TenantContext, sessionID uuid.UUID) (*models.Session, error) {
	now := s.now()

	if cached, err := s.cacheSvc.GetSession(ctx, tc.TenantID, sessionID); err == nil && cached != nil {
		if cached.Expired(now) || !cached.IsActive {
			return nil, common.NewNotFoundError("session")
		}
		return cached, nil
	}

	session, err := s.sessionRepo.GetBySessionID(ctx, tc.TenantID, sessionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFoundError("session")
		}
		return nil, common.NewInternalError(err)
	}

	// Lazy expiry: a row the reaper has not swept yet is still gone from
	// the caller's point of view.
	if session.Expired(now) || !session.IsActive {
		return nil, common.NewNotFoundError("session")
	}

	s.cacheSession(ctx, session)
	return session, nil
}

func (s *sessionService) Update(ctx context.Context, tc common.TenantContext, sessionID uuid.UUID, data map[string]string, extendHours int) (*models.Session, error) {
	session, err := s.Get(ctx, tc, sessionID)
	if err != nil {
		return nil, err
	}

	if data != nil {
		session.Data = data
	}
	if extendHours > 0 {
		session.ExpiresAt = session.ExpiresAt.Add(time.Duration(extendHours) * time.Hour)
	}
	session.UpdatedAt = s.now()

	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return nil, common.NewInternalError(err)
	}

	s.cacheSession(ctx, session)
	return session, nil
}

func (s *sessionService) Delete(ctx context.Context, tc common.TenantContext, sessionID uuid.UUID) error {
	if err := s.sessionRepo.Delete(ctx, tc.TenantID, sessionID); err != nil {
		return common.NewInternalError(err)
	}
	_ = s.cacheSvc.DeleteSession(ctx, tc.TenantID, sessionID)
	return nil
}

func (s *sessionService) GetOrCreate(ctx context.Context, tc common.TenantContext, userID, channel string) (*models.Session, error) {
	if err := common.ValidateRequiredString(userID, "user_id"); err != nil {
		return nil, common.NewValidationError(err.Error())
	}
	if err := common.ValidateRequiredString(channel, "channel"); err != nil {
		return nil, common.NewValidationError(err.Error())
	}

	existing, err := s.sessionRepo.GetActive(ctx, tc.TenantID, userID, channel)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, common.NewInternalError(err)
	}

	now := s.now()
	if existing != nil && !existing.Expired(now) {
		if existing.ExpiresAt.Sub(now) < sessionExtendThreshold {
			existing.ExpiresAt = now.Add(defaultSessionTTL)
			existing.UpdatedAt = now
			if err := s.sessionRepo.Update(ctx, existing); err != nil {
				return nil, common.NewInternalError(err)
			}
		}
		s.cacheSession(ctx, existing)
		return existing, nil
	}

	return s.Create(ctx, tc, userID, channel, 0)
}

func (s *sessionService) ReapExpired(ctx context.Context) (int64, error) {
	return s.sessionRepo.DeactivateExpired(ctx)
}

// cacheSession best-effort writes the session through to Redis with a TTL
// bounded by the session's own expiry.
func (s *sessionService) cacheSession(ctx context.Context, session *models.Session) {
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return
	}
	_ = s.cacheSvc.SetSession(ctx, session, ttl)
}
