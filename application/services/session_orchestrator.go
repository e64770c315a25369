package services

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"

	"github.com/yonigottesman/gpt-storyteller/application/ports/inbound"
	"github.com/yonigottesman/gpt-storyteller/application/ports/outbound"
	"github.com/yonigottesman/gpt-storyteller/channel_utils"
	"github.com/yonigottesman/gpt-storyteller/domain"
)

// OrchestratorConfig selects the deployment variant behavior shared by all
// sessions.
type OrchestratorConfig struct {
	// Language is the spoken language tag passed to the transcriber.
	Language string
	// Topics is the pool for the randomized-prompt mode.
	Topics []string
	// WithQuestions switches single-shot responses to the
	// {title, text, questions} shape.
	WithQuestions bool
}

type sessionOrchestrator struct {
	logger      outbound.LoggerPort
	workerPool  outbound.TaskDispatcher
	normalizer  outbound.AudioNormalizerPort
	transcriber outbound.TranscriberPort
	planner     outbound.StoryPlannerPort
	streamer    outbound.StoryStreamerPort
	illustrator outbound.IllustratorPort
	config      OrchestratorConfig
}

func NewSessionOrchestrator(config OrchestratorConfig, logger outbound.LoggerPort, workerPool outbound.TaskDispatcher,
	normalizer outbound.AudioNormalizerPort, transcriber outbound.TranscriberPort, planner outbound.StoryPlannerPort,
	streamer outbound.StoryStreamerPort, illustrator outbound.IllustratorPort) inbound.SessionOrchestratorPort {
	return &sessionOrchestrator{
		logger:      logger,
		workerPool:  workerPool,
		normalizer:  normalizer,
		transcriber: transcriber,
		planner:     planner,
		streamer:    streamer,
		illustrator: illustrator,
		config:      config,
	}
}

func (s *sessionOrchestrator) RunUtterance(ctx context.Context, payload domain.AudioPayload) <-chan domain.SessionEvent {
	out := make(chan domain.SessionEvent, 1)

	err := s.workerPool.Submit(func() {
		defer close(out)
		s.runUtterance(ctx, payload, out)
	})
	if err != nil {
		s.logger.Error(err, "Failed to submit utterance task")
		out <- domain.NewErrorEvent(domain.StreamingStage, err)
		close(out)
	}

	return out
}

// runUtterance walks one utterance through transcribing, planning and
// generating. A stage failure surfaces as an error event and ends the
// utterance without closing the session; the caller loops back for the next
// one.
func (s *sessionOrchestrator) runUtterance(ctx context.Context, payload domain.AudioPayload, out chan<- domain.SessionEvent) {
	normalized, err := s.normalizer.Normalize(payload)
	if err != nil {
		s.logger.Error(err, "Audio normalization failed")
		s.emit(ctx, out, domain.NewErrorEvent(domain.TranscodingStage, err))
		return
	}

	transcript, err := s.transcriber.Transcribe(ctx, normalized, s.config.Language)
	if err != nil {
		s.logger.Error(err, "Transcription failed")
		s.emit(ctx, out, domain.NewErrorEvent(domain.TranscriptionStage, err))
		return
	}
	s.emit(ctx, out, domain.NewAudioTextEvent(transcript))

	brief, err := s.planner.Plan(ctx, transcript)
	if err != nil {
		s.logger.Error(err, "Planning failed")
		s.emit(ctx, out, domain.NewErrorEvent(domain.PlanningStage, err))
		return
	}
	s.emit(ctx, out, domain.NewTitleEvent(brief.Title))

	s.generate(ctx, brief, transcript, out)

	if ctx.Err() == nil {
		s.emit(ctx, out, domain.NewDoneEvent())
	}
}

// generate runs the text stream and the illustration call concurrently
// against the same brief and forwards their events as each arrives. It
// returns only after both have completed, so the terminal done event can
// never overtake a slow illustration.
func (s *sessionOrchestrator) generate(ctx context.Context, brief domain.StoryBrief, transcript string, out chan<- domain.SessionEvent) {
	textEvents := s.textEvents(ctx, brief)
	imageEvents := s.imageEvents(ctx, brief, transcript)

	merged, err := channel_utils.MergeChannels(s.workerPool, textEvents, imageEvents)
	if err != nil {
		s.logger.Error(err, "Failed to merge generation channels")
		s.emit(ctx, out, domain.NewErrorEvent(domain.StreamingStage, err))
		for range textEvents {
		}
		for range imageEvents {
		}
		return
	}

	for ev := range merged {
		s.emit(ctx, out, ev)
	}
}

func (s *sessionOrchestrator) textEvents(ctx context.Context, brief domain.StoryBrief) <-chan domain.SessionEvent {
	out := make(chan domain.SessionEvent, 1)

	chunks, errCh := s.streamer.Stream(ctx, brief)

	err := s.workerPool.Submit(func() {
		defer close(out)
		for chunk := range chunks {
			select {
			case <-ctx.Done():
				return
			case out <- domain.NewTextEvent(chunk):
			}
		}
		if err, ok := <-errCh; ok && err != nil {
			s.emit(ctx, out, domain.NewErrorEvent(domain.StreamingStage, err))
		}
	})
	if err != nil {
		out <- domain.NewErrorEvent(domain.StreamingStage, err)
		close(out)
	}

	return out
}

func (s *sessionOrchestrator) imageEvents(ctx context.Context, brief domain.StoryBrief, transcript string) <-chan domain.SessionEvent {
	out := make(chan domain.SessionEvent, 1)

	err := s.workerPool.Submit(func() {
		defer close(out)
		illustration, err := s.illustrator.Illustrate(ctx, brief, transcript)
		if err != nil {
			s.logger.Error(err, "Illustration failed")
			s.emit(ctx, out, domain.NewErrorEvent(domain.IllustrationStage, err))
			return
		}
		s.emit(ctx, out, domain.NewImageEvent(illustration))
	})
	if err != nil {
		out <- domain.NewErrorEvent(domain.IllustrationStage, err)
		close(out)
	}

	return out
}

func (s *sessionOrchestrator) CreateStory(ctx context.Context, payload domain.AudioPayload) (domain.StoryResult, error) {
	normalized, err := s.normalizer.Normalize(payload)
	if err != nil {
		return domain.StoryResult{}, err
	}

	transcript, err := s.transcriber.Transcribe(ctx, normalized, s.config.Language)
	if err != nil {
		return domain.StoryResult{}, err
	}

	return s.createFromText(ctx, transcript)
}

func (s *sessionOrchestrator) CreateStoryFromRandomTopic(ctx context.Context) (domain.StoryResult, error) {
	if len(s.config.Topics) == 0 {
		return domain.StoryResult{}, fmt.Errorf("no topics configured")
	}
	topic := s.config.Topics[rand.Intn(len(s.config.Topics))]

	s.logger.InfoWithFields("Generating story from random topic", map[string]interface{}{
		"topic": topic,
	})

	return s.createFromText(ctx, topic)
}

func (s *sessionOrchestrator) createFromText(ctx context.Context, sourceText string) (domain.StoryResult, error) {
	if s.config.WithQuestions {
		return s.createWithQuestions(ctx, sourceText)
	}
	return s.createStreamed(ctx, sourceText)
}

// createStreamed drains the full text stream while the illustration call is
// in flight; both must resolve before the result is returned.
func (s *sessionOrchestrator) createStreamed(ctx context.Context, sourceText string) (domain.StoryResult, error) {
	brief, err := s.planner.Plan(ctx, sourceText)
	if err != nil {
		return domain.StoryResult{}, err
	}

	var (
		wg           sync.WaitGroup
		illustration domain.Illustration
		illErr       error
	)
	wg.Add(1)
	if err = s.workerPool.Submit(func() {
		defer wg.Done()
		illustration, illErr = s.illustrator.Illustrate(ctx, brief, sourceText)
	}); err != nil {
		wg.Done()
		return domain.StoryResult{}, err
	}

	chunks, errCh := s.streamer.Stream(ctx, brief)
	var builder strings.Builder
	for chunk := range chunks {
		builder.WriteString(string(chunk))
	}
	streamErr := <-errCh
	wg.Wait()

	if streamErr != nil {
		return domain.StoryResult{}, streamErr
	}
	if illErr != nil {
		return domain.StoryResult{}, illErr
	}

	return domain.StoryResult{
		Title:    brief.Title,
		Text:     builder.String(),
		ImageURL: illustration.URL,
	}, nil
}

func (s *sessionOrchestrator) createWithQuestions(ctx context.Context, sourceText string) (domain.StoryResult, error) {
	plan, err := s.planner.PlanFull(ctx, sourceText)
	if err != nil {
		return domain.StoryResult{}, err
	}

	illustration, err := s.illustrator.Illustrate(ctx, domain.StoryBrief{Title: plan.Title}, sourceText)
	if err != nil {
		return domain.StoryResult{}, err
	}

	return domain.StoryResult{
		Title:     plan.Title,
		Text:      plan.Text,
		Questions: plan.Questions,
		ImageURL:  illustration.URL,
	}, nil
}

func (s *sessionOrchestrator) emit(ctx context.Context, out chan<- domain.SessionEvent, ev domain.SessionEvent) {
	select {
	case <-ctx.Done():
	case out <- ev:
	}
}
