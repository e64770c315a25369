package outbound

import (
	"context"

	"github.com/yonigottesman/gpt-storyteller/domain"
)

// StoryStreamerPort opens one streaming generation call for a brief. Chunks
// are delivered in generation order and the channel closes when the upstream
// stream closes; the stream is not restartable.
type StoryStreamerPort interface {
	Stream(ctx context.Context, brief domain.StoryBrief) (<-chan domain.StoryChunk, <-chan error)
}
