package processor

import (
	"context"
	"sort"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/TerritorialConquest/internal/game/core"
	"github.com/mitchelldurbincs/TerritorialConquest/internal/game/events"
)

// Handler applies validated actions to a simulation. Errors reject the
// action without stopping the tick.
type Handler interface {
	HandleSpawn(a *core.SpawnAction) error
	HandleAttack(a *core.AttackAction) error
	HandleBoat(a *core.BoatAction) error
}

// Result summarizes one tick of action processing
type Result struct {
	Processed int
	Rejected  []error
}

// ActionProcessor handles the processing of player actions during each game tick
type ActionProcessor struct {
	logger    zerolog.Logger
	publisher events.Publisher
	gameID    string
}

// NewActionProcessor creates a new action processor
func NewActionProcessor(logger zerolog.Logger, publisher events.Publisher, gameID string) *ActionProcessor {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &ActionProcessor{
		logger:    logger.With().Str("component", "ActionProcessor").Logger(),
		publisher: publisher,
		gameID:    gameID,
	}
}

// SortActions returns a copy of actions ordered by player ID. Actions of the
// same player keep their submission order.
func SortActions(actions []core.Action) []core.Action {
	sorted := make([]core.Action, 0, len(actions))
	for _, a := range actions {
		if a != nil {
			sorted = append(sorted, a)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].GetPlayerID() < sorted[j].GetPlayerID()
	})
	return sorted
}

// ProcessActions validates and applies the actions of one tick in
// deterministic order. Only context cancellation aborts processing.
func (ap *ActionProcessor) ProcessActions(ctx context.Context, w *core.World, tick int, actions []core.Action, h Handler) (Result, error) {
	var result Result
	sorted := SortActions(actions)
	ap.logger.Debug().Int("tick", tick).Int("actions", len(sorted)).Msg("Processing actions")

	for _, action := range sorted {
		select {
		case <-ctx.Done():
			ap.logger.Warn().Err(ctx.Err()).Int("tick", tick).Msg("Action processing interrupted by context cancellation")
			return result, ctx.Err()
		default:
		}

		playerID := action.GetPlayerID()
		err := action.Validate(w)
		if err == nil {
			err = ap.dispatch(action, h)
		}
		if err != nil {
			wrapped := core.WrapActionError(action, err)
			ap.logger.Debug().Err(wrapped).
				Int("tick", tick).
				Uint16("player_id", uint16(playerID)).
				Str("action_type", core.GetActionType(action)).
				Msg("Action rejected")
			ap.publisher.Publish(events.NewActionRejectedEvent(ap.gameID, int(playerID), core.GetActionType(action), err.Error(), tick))
			result.Rejected = append(result.Rejected, wrapped)
			continue
		}

		result.Processed++
		ap.publisher.Publish(events.NewActionProcessedEvent(ap.gameID, int(playerID), core.GetActionType(action), tick))
	}
	return result, nil
}

func (ap *ActionProcessor) dispatch(action core.Action, h Handler) error {
	switch act := action.(type) {
	case *core.SpawnAction:
		return h.HandleSpawn(act)
	case *core.AttackAction:
		return h.HandleAttack(act)
	case *core.BoatAction:
		return h.HandleBoat(act)
	default:
		ap.logger.Warn().Str("action_type", core.GetActionType(action)).Msg("Unhandled action type")
		return core.ErrInvalidTarget
	}
}
