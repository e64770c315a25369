package outbound

import (
	"context"

	"github.com/yonigottesman/gpt-storyteller/domain"
)

// StoryPlannerPort turns raw user text into a structured story plan.
//
// Plan runs the deterministic title/gist mode used before streaming. PlanFull
// runs the long-form mode with default sampling and returns the whole story
// text plus comprehension questions in one shot.
type StoryPlannerPort interface {
	Plan(ctx context.Context, sourceText string) (domain.StoryBrief, error)
	PlanFull(ctx context.Context, sourceText string) (domain.FullStoryPlan, error)
}
