package mock_generator

import (
	"context"
	"strings"
	"time"

	"github.com/yonigottesman/gpt-storyteller/application/ports/outbound"
	"github.com/yonigottesman/gpt-storyteller/domain"
)

// Canned ports for running the server without OpenAI credentials or spend.
// Wired by cmd/main.go when STORYTELLER_MOCK=1; the real orchestrator,
// normalizer and transports stay in the loop.

const mockTranscript = "ספר לי סיפור על ילדה ודרקון שמחפשים אוצר ביער"

const mockStory = `לילה אחד, כשכל הכפר ישן, יצאה נועה מהחלון ופגשה דרקון קטן וירוק.
הדרקון לחש לה על אוצר עתיק שמוסתר בלב היער.
הם הלכו יחד בין העצים, מעל גשר של שורשים, עד שמצאו מערה זוהרת.
בתוך המערה לא היה זהב, אלא ספרייה של סיפורים ישנים.
נועה והדרקון קראו עד הזריחה, וחזרו הביתה עם הסיפור הכי טוב מכולם.`

type mockTranscriber struct{}

func NewMockTranscriber() outbound.TranscriberPort {
	return &mockTranscriber{}
}

func (m *mockTranscriber) Transcribe(_ context.Context, _ domain.NormalizedAudio, _ string) (string, error) {
	return mockTranscript, nil
}

type mockPlanner struct{}

func NewMockPlanner() outbound.StoryPlannerPort {
	return &mockPlanner{}
}

func (m *mockPlanner) Plan(_ context.Context, _ string) (domain.StoryBrief, error) {
	return domain.StoryBrief{
		Title: "נועה והדרקון הירוק",
		Gist:  "ילדה ודרקון קטן מטיילים ביער ליד מערה זוהרת ומוצאים ספרייה עתיקה של סיפורים",
	}, nil
}

func (m *mockPlanner) PlanFull(_ context.Context, _ string) (domain.FullStoryPlan, error) {
	return domain.FullStoryPlan{
		Title: "נועה והדרקון הירוק",
		Text:  mockStory,
		Questions: []string{
			"את מי פגשה נועה בלילה?",
			"מה הם מצאו במערה?",
			"מתי הם חזרו הביתה?",
		},
	}, nil
}

type mockStreamer struct {
	workerPool outbound.TaskDispatcher
	delay      time.Duration
}

func NewMockStreamer(workerPool outbound.TaskDispatcher) outbound.StoryStreamerPort {
	return &mockStreamer{
		workerPool: workerPool,
		delay:      50 * time.Millisecond,
	}
}

func (m *mockStreamer) Stream(ctx context.Context, _ domain.StoryBrief) (<-chan domain.StoryChunk, <-chan error) {
	out := make(chan domain.StoryChunk)
	errCh := make(chan error, 1)

	err := m.workerPool.Submit(func() {
		defer close(out)
		defer close(errCh)
		for _, word := range strings.Fields(mockStory) {
			select {
			case <-ctx.Done():
				return
			case out <- domain.StoryChunk(word + " "):
				time.Sleep(m.delay)
			}
		}
	})
	if err != nil {
		errCh <- err
		close(out)
		close(errCh)
	}

	return out, errCh
}

type mockIllustrator struct{}

func NewMockIllustrator() outbound.IllustratorPort {
	return &mockIllustrator{}
}

func (m *mockIllustrator) Illustrate(_ context.Context, _ domain.StoryBrief, _ string) (domain.Illustration, error) {
	return domain.Illustration{URL: "https://placehold.co/1024x1024"}, nil
}
