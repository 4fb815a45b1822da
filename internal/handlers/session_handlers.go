package handlers

import (
	"net/http"

	"courierhub/internal/common"
	"courierhub/internal/services"

	"github.com/labstack/echo/v4"
)

// SessionHandlers exposes conversational session state to the chat-channel
// integrations.
type SessionHandlers struct {
	sessionSvc services.SessionService
}

func NewSessionHandlers(sessionSvc services.SessionService) *SessionHandlers {
	return &SessionHandlers{sessionSvc: sessionSvc}
}

// CreateSession handles POST /v1/sessions
func (h *SessionHandlers) CreateSession(c echo.Context) error {
	tc, err := tenantContext(c)
	if err != nil {
		return common.SendError(c, err)
	}

	var req struct {
		UserID   string `json:"user_id"`
		Channel  string `json:"channel"`
		TTLHours int    `json:"ttl_hours"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	session, err := h.sessionSvc.Create(c.Request().Context(), tc, req.UserID, req.Channel, req.TTLHours)
	if err != nil {
		return common.SendError(c, err)
	}

	return c.JSON(http.StatusCreated, session)
}

// GetSession handles GET /v1/sessions/:sessionID
func (h *SessionHandlers) GetSession(c echo.Context) error {
	tc, err := tenantContext(c)
	if err != nil {
		return common.SendError(c, err)
	}

	sessionID, err := common.ValidateUUID(c.Param("sessionID"), "session_id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	session, err := h.sessionSvc.Get(c.Request().Context(), tc, sessionID)
	if err != nil {
		return common.SendError(c, err)
	}

	return c.JSON(http.StatusOK, session)
}

// UpdateSession handles PUT /v1/sessions/:sessionID
func (h *SessionHandlers) UpdateSession(c echo.Context) error {
	tc, err := tenantContext(c)
	if err != nil {
		return common.SendError(c, err)
	}

	sessionID, err := common.ValidateUUID(c.Param("sessionID"), "session_id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	var req struct {
		Data        map[string]string `json:"data"`
		ExtendHours int               `json:"extend_hours"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	session, err := h.sessionSvc.Update(c.Request().Context(), tc, sessionID, req.Data, req.ExtendHours)
	if err != nil {
		return common.SendError(c, err)
	}

	return c.JSON(http.StatusOK, session)
}

// DeleteSession handles DELETE /v1/sessions/:sessionID
func (h *SessionHandlers) DeleteSession(c echo.Context) error {
	tc, err := tenantContext(c)
	if err != nil {
		return common.SendError(c, err)
	}

	sessionID, err := common.ValidateUUID(c.Param("sessionID"), "session_id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	if err := h.sessionSvc.Delete(c.Request().Context(), tc, sessionID); err != nil {
		return common.SendError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// GetOrCreateSession handles POST /v1/sessions/get-or-create
func (h *SessionHandlers) GetOrCreateSession(c echo.Context) error {
	tc, err := tenantContext(c)
	if err != nil {
		return common.SendError(c, err)
	}

	var req struct {
		UserID  string `json:"user_id"`
		Channel string `json:"channel"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	session, err := h.sessionSvc.GetOrCreate(c.Request().Context(), tc, req.UserID, req.Channel)
	if err != nil {
		return common.SendError(c, err)
	}

	return c.JSON(http.StatusOK, session)
}
