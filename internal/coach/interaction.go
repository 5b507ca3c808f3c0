package coach

import (
	"fmt"
	"time"
)

// InteractionAction enumerates how a user responded to a recommendation.
type InteractionAction string

const (
	ActionViewed    InteractionAction = "viewed"
	ActionDismissed InteractionAction = "dismissed"
	ActionActedOn   InteractionAction = "acted_on"
)

// InteractionStore persists recommendation interactions. Implementations
// own storage entirely; the engine validates and forwards.
type InteractionStore interface {
	SaveInteraction(userID, recommendationID string, action InteractionAction, at time.Time) error
}

// RecordInteraction validates and forwards one recommendation interaction.
// Without a configured store the call is fire-and-forget: the action enum
// is still validated and the event still emitted.
func (e *Engine) RecordInteraction(userID, recommendationID string, action InteractionAction) error {
	switch action {
	case ActionViewed, ActionDismissed, ActionActedOn:
	default:
		return fmt.Errorf("%w: unknown interaction action %q", ErrInvalidInput, action)
	}
	if userID == "" || recommendationID == "" {
		return fmt.Errorf("%w: interaction needs a user id and a recommendation id", ErrInvalidInput)
	}

	if e.interactions != nil {
		if err := e.interactions.SaveInteraction(userID, recommendationID, action, e.nowFn()); err != nil {
			return fmt.Errorf("saving interaction: %w", err)
		}
	}

	e.emit("interaction_recorded", map[string]any{
		"user_id":           userID,
		"recommendation_id": recommendationID,
		"action":            string(action),
	})

	return nil
}
