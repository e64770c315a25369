package inbound

import (
	"context"

	"github.com/yonigottesman/gpt-storyteller/domain"
)

// SessionOrchestratorPort drives one story session end to end in one of the
// deployment modes: interactive (websocket), single-shot (upload) or
// randomized-prompt.
type SessionOrchestratorPort interface {
	// RunUtterance handles one interactive utterance. Stage failures are
	// reported on the event channel as error events; the channel closes when
	// the utterance is fully handled either way.
	RunUtterance(ctx context.Context, payload domain.AudioPayload) <-chan domain.SessionEvent

	// CreateStory handles one single-shot upload. Any stage failure aborts
	// the whole request; there is no partial result.
	CreateStory(ctx context.Context, payload domain.AudioPayload) (domain.StoryResult, error)

	// CreateStoryFromRandomTopic generates a story for a randomly picked
	// topic instead of a spoken prompt.
	CreateStoryFromRandomTopic(ctx context.Context) (domain.StoryResult, error)
}
