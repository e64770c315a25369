package outbound

import (
	"context"

	"github.com/yonigottesman/gpt-storyteller/domain"
)

type IllustratorPort interface {
	Illustrate(ctx context.Context, brief domain.StoryBrief, extraContext string) (domain.Illustration, error)
}
