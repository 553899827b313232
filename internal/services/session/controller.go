package session

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/mcoot/pokernight/internal/dependencies/clock"
	"github.com/mcoot/pokernight/internal/dependencies/idgen"
	"github.com/mcoot/pokernight/internal/model"
	"github.com/mcoot/pokernight/internal/services/aggregator"
	"github.com/mcoot/pokernight/internal/storage"
)

// MinPlayers is the smallest table a session can be recorded with
const MinPlayers = 2

// CreateParams describes a new session
type CreateParams struct {
	Date     time.Time // zero means now
	Location string
	Players  []model.PlayerSession
}

// EditParams holds the fields to replace; nil fields are left unchanged.
// Players, when set, replaces the whole participant list.
type EditParams struct {
	Date     *time.Time
	Location *string
	Players  []model.PlayerSession
}

// ListFilter narrows a session listing
type ListFilter struct {
	Status   model.SessionStatus
	Location string // case-insensitive substring
}

// Controller manages the session lifecycle.
// Every mutation rebuilds player totals before it returns.
type Controller struct {
	storage    storage.Storage
	aggregator *aggregator.Service
	clock      clock.Clock
	ids        idgen.Generator
	logger     *slog.Logger
}

// NewController creates a new session Controller
func NewController(
	storage storage.Storage,
	aggregator *aggregator.Service,
	clock clock.Clock,
	ids idgen.Generator,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage:    storage,
		aggregator: aggregator,
		clock:      clock,
		ids:        ids,
		logger:     logger,
	}
}

// Create validates and records a new session
func (c *Controller) Create(ctx context.Context, params CreateParams) (*model.Session, error) {
	location, err := validateLocation(params.Location)
	if err != nil {
		return nil, err
	}
	if err := validatePlayers(params.Players); err != nil {
		return nil, err
	}
	if err := c.ensurePlayersExist(ctx, params.Players, nil); err != nil {
		return nil, err
	}

	now := c.clock.Now()
	date := params.Date
	if date.IsZero() {
		date = now
	}

	session := &model.Session{
		ID:        model.SessionID(c.ids.NewID()),
		Date:      date,
		Location:  location,
		Players:   model.ClonePlayerSessions(params.Players),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := c.save(ctx, session); err != nil {
		return nil, err
	}

	c.logger.Info("session created",
		slog.String("session_id", string(session.ID)),
		slog.String("location", session.Location),
		slog.Int("player_count", len(session.Players)),
	)
	return session, nil
}

// Get retrieves a session by ID
func (c *Controller) Get(ctx context.Context, id model.SessionID) (*model.Session, error) {
	return c.storage.GetSession(ctx, id)
}

// List returns sessions matching the filter, most recent first
func (c *Controller) List(ctx context.Context, filter ListFilter) ([]*model.Session, error) {
	sessions, err := c.storage.ListSessions(ctx)
	if err != nil {
		return nil, err
	}

	location := strings.ToLower(strings.TrimSpace(filter.Location))
	result := make([]*model.Session, 0, len(sessions))
	for _, s := range sessions {
		if !filter.Status.Matches(s) {
			continue
		}
		if location != "" && !strings.Contains(strings.ToLower(s.Location), location) {
			continue
		}
		result = append(result, s)
	}
	return result, nil
}

// Edit replaces the supplied fields of a session
func (c *Controller) Edit(ctx context.Context, id model.SessionID, params EditParams) (*model.Session, error) {
	session, err := c.storage.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Location != nil {
		location, err := validateLocation(*params.Location)
		if err != nil {
			return nil, err
		}
		session.Location = location
	}
	if params.Date != nil && !params.Date.IsZero() {
		session.Date = *params.Date
	}
	if params.Players != nil {
		if err := validatePlayers(params.Players); err != nil {
			return nil, err
		}
		// Players already seated may since have been deleted; only newcomers must exist
		if err := c.ensurePlayersExist(ctx, params.Players, session); err != nil {
			return nil, err
		}
		session.Players = model.ClonePlayerSessions(params.Players)
	}
	session.UpdatedAt = c.clock.Now()

	if err := c.save(ctx, session); err != nil {
		return nil, err
	}

	c.logger.Info("session updated",
		slog.String("session_id", string(session.ID)),
		slog.Bool("is_active", session.IsActive()),
	)
	return session, nil
}

// RecordCashOut sets a participant's cash-out, keeping the pool conserved
func (c *Controller) RecordCashOut(
	ctx context.Context,
	sessionID model.SessionID,
	playerID model.PlayerID,
	amount model.Money,
) (*model.Session, error) {
	if amount < 0 {
		return nil, model.ErrInvalidAmount
	}

	session, err := c.storage.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	participant := session.GetPlayer(playerID)
	if participant == nil {
		return nil, model.ErrNotInSession
	}
	if participant.HasCashedOut() {
		return nil, model.ErrAlreadyCashedOut
	}
	if session.TotalCashOut()+amount > session.TotalBuyIn() {
		return nil, model.ErrPoolExceeded
	}

	participant.CashOut = model.MoneyPtr(amount)
	session.UpdatedAt = c.clock.Now()

	if err := c.save(ctx, session); err != nil {
		return nil, err
	}

	c.logger.Info("cash-out recorded",
		slog.String("session_id", string(session.ID)),
		slog.String("player_id", string(playerID)),
		slog.String("amount", amount.String()),
		slog.Bool("is_active", session.IsActive()),
	)
	return session, nil
}

// Delete removes a session and all of its rows
func (c *Controller) Delete(ctx context.Context, id model.SessionID) error {
	if _, err := c.storage.GetSession(ctx, id); err != nil {
		return err
	}

	if err := c.storage.DeleteSession(ctx, id); err != nil {
		c.logger.Error("failed to delete session",
			slog.String("session_id", string(id)),
			slog.String("error", err.Error()),
		)
		return err
	}
	if err := c.aggregator.Recompute(ctx); err != nil {
		return err
	}

	c.logger.Info("session deleted", slog.String("session_id", string(id)))
	return nil
}

// save persists the session and rebuilds player totals
func (c *Controller) save(ctx context.Context, session *model.Session) error {
	if err := c.storage.SaveSession(ctx, session); err != nil {
		c.logger.Error("failed to save session",
			slog.String("session_id", string(session.ID)),
			slog.String("error", err.Error()),
		)
		return err
	}
	return c.aggregator.Recompute(ctx)
}

// ensurePlayersExist checks every participant not already seated in existing
func (c *Controller) ensurePlayersExist(ctx context.Context, players []model.PlayerSession, existing *model.Session) error {
	for _, p := range players {
		if existing != nil && existing.GetPlayer(p.PlayerID) != nil {
			continue
		}
		if _, err := c.storage.GetPlayer(ctx, p.PlayerID); err != nil {
			return err
		}
	}
	return nil
}

func validateLocation(location string) (string, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return "", model.ErrInvalidLocation
	}
	return location, nil
}

// validatePlayers checks the participant list on its own, without touching the store
func validatePlayers(players []model.PlayerSession) error {
	if len(players) < MinPlayers {
		return model.ErrInsufficientPlayers
	}

	seen := make(map[model.PlayerID]struct{}, len(players))
	var buyIns, cashOuts model.Money
	for _, p := range players {
		if p.BuyIn <= 0 {
			return model.ErrInvalidBuyIn
		}
		if _, dup := seen[p.PlayerID]; dup {
			return model.ErrDuplicatePlayer
		}
		seen[p.PlayerID] = struct{}{}

		buyIns += p.BuyIn
		if p.CashOut != nil {
			if *p.CashOut < 0 {
				return model.ErrInvalidAmount
			}
			cashOuts += *p.CashOut
		}
	}

	if cashOuts > buyIns {
		return model.ErrPoolExceeded
	}
	return nil
}
