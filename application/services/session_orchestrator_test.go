package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yonigottesman/gpt-storyteller/application/ports/outbound"
	"github.com/yonigottesman/gpt-storyteller/domain"
	"github.com/yonigottesman/gpt-storyteller/infrastructure/adapters"
)

type fakeNormalizer struct {
	err error
}

func (f *fakeNormalizer) Normalize(payload domain.AudioPayload) (domain.NormalizedAudio, error) {
	if f.err != nil {
		return domain.NormalizedAudio{}, f.err
	}
	return domain.NormalizedAudio{Data: payload.Data, Name: domain.NormalizedAudioName}, nil
}

type fakeTranscriber struct {
	transcript string
	err        error
	gotAudio   domain.NormalizedAudio
}

func (f *fakeTranscriber) Transcribe(_ context.Context, audio domain.NormalizedAudio, _ string) (string, error) {
	f.gotAudio = audio
	if f.err != nil {
		return "", f.err
	}
	return f.transcript, nil
}

type fakePlanner struct {
	brief     domain.StoryBrief
	full      domain.FullStoryPlan
	err       error
	gotSource string
}

func (f *fakePlanner) Plan(_ context.Context, sourceText string) (domain.StoryBrief, error) {
	f.gotSource = sourceText
	if f.err != nil {
		return domain.StoryBrief{}, f.err
	}
	return f.brief, nil
}

func (f *fakePlanner) PlanFull(_ context.Context, sourceText string) (domain.FullStoryPlan, error) {
	f.gotSource = sourceText
	if f.err != nil {
		return domain.FullStoryPlan{}, f.err
	}
	return f.full, nil
}

type fakeStreamer struct {
	chunks []string
	err    error
}

func (f *fakeStreamer) Stream(ctx context.Context, _ domain.StoryBrief) (<-chan domain.StoryChunk, <-chan error) {
	out := make(chan domain.StoryChunk)
	errCh := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errCh)
		for _, chunk := range f.chunks {
			select {
			case <-ctx.Done():
				return
			case out <- domain.StoryChunk(chunk):
			}
		}
		if f.err != nil {
			errCh <- f.err
		}
	}()
	return out, errCh
}

type fakeIllustrator struct {
	url  string
	err  error
	gate chan struct{}
}

func (f *fakeIllustrator) Illustrate(ctx context.Context, _ domain.StoryBrief, _ string) (domain.Illustration, error) {
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return domain.Illustration{}, ctx.Err()
		}
	}
	if f.err != nil {
		return domain.Illustration{}, f.err
	}
	return domain.Illustration{URL: f.url}, nil
}

type testPorts struct {
	normalizer  *fakeNormalizer
	transcriber *fakeTranscriber
	planner     *fakePlanner
	streamer    *fakeStreamer
	illustrator *fakeIllustrator
}

func defaultPorts() *testPorts {
	return &testPorts{
		normalizer:  &fakeNormalizer{},
		transcriber: &fakeTranscriber{transcript: "ספר לי על דרקון"},
		planner: &fakePlanner{
			brief: domain.StoryBrief{Title: "הדרקון", Gist: "יער קסום"},
			full:  domain.FullStoryPlan{Title: "הדרקון", Text: "סיפור מלא", Questions: []string{"?"}},
		},
		streamer:    &fakeStreamer{chunks: []string{"פעם ", "אחת"}},
		illustrator: &fakeIllustrator{url: "https://images.example/1.png"},
	}
}

func newTestOrchestrator(t *testing.T, config OrchestratorConfig, ports *testPorts) *sessionOrchestrator {
	t.Helper()
	workerPool, err := ants.NewPool(50)
	require.NoError(t, err)
	t.Cleanup(workerPool.Release)

	var logger outbound.LoggerPort = adapters.NewZerologWrapper()

	return NewSessionOrchestrator(config, logger, workerPool,
		ports.normalizer, ports.transcriber, ports.planner,
		ports.streamer, ports.illustrator).(*sessionOrchestrator)
}

func testPayload() domain.AudioPayload {
	return domain.AudioPayload{
		Data:        []byte{0x01, 0x02, 0x03},
		ContentType: domain.CanonicalAudioContentType,
	}
}

func collect(events <-chan domain.SessionEvent) []domain.SessionEvent {
	var got []domain.SessionEvent
	for ev := range events {
		got = append(got, ev)
	}
	return got
}

func TestRunUtterance_EventOrder(t *testing.T) {
	ports := defaultPorts()
	orchestrator := newTestOrchestrator(t, OrchestratorConfig{Language: "he"}, ports)

	events := collect(orchestrator.RunUtterance(context.Background(), testPayload()))
	require.NotEmpty(t, events)

	assert.Equal(t, domain.AudioTextEventType, events[0].Type)
	assert.Equal(t, "ספר לי על דרקון", events[0].Value)
	assert.Equal(t, domain.TitleEventType, events[1].Type)
	assert.Equal(t, "הדרקון", events[1].Value)
	assert.Equal(t, domain.DoneEventType, events[len(events)-1].Type)

	var texts []string
	images := 0
	for _, ev := range events[2 : len(events)-1] {
		switch ev.Type {
		case domain.TextEventType:
			texts = append(texts, ev.Value.(string))
		case domain.ImageEventType:
			images++
			assert.Equal(t, "https://images.example/1.png", ev.Value)
		default:
			t.Fatalf("unexpected event type %q", ev.Type)
		}
	}
	assert.Equal(t, []string{"פעם ", "אחת"}, texts, "chunks must keep generation order")
	assert.Equal(t, 1, images)

	assert.Equal(t, testPayload().Data, ports.transcriber.gotAudio.Data, "canonical audio reaches the transcriber unchanged")
}

func TestRunUtterance_DoneWaitsForIllustration(t *testing.T) {
	ports := defaultPorts()
	ports.illustrator.gate = make(chan struct{})
	orchestrator := newTestOrchestrator(t, OrchestratorConfig{Language: "he"}, ports)

	events := orchestrator.RunUtterance(context.Background(), testPayload())

	// audio_text, title and both text chunks arrive while the illustration
	// is still in flight
	for i := 0; i < 4; i++ {
		select {
		case ev, ok := <-events:
			require.True(t, ok, "events closed early")
			require.NotEqual(t, domain.DoneEventType, ev.Type)
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for early events")
		}
	}

	select {
	case ev := <-events:
		t.Fatalf("got %q event before illustration finished", ev.Type)
	case <-time.After(150 * time.Millisecond):
	}

	close(ports.illustrator.gate)

	var tail []domain.SessionEvent
	for ev := range events {
		tail = append(tail, ev)
	}
	require.Len(t, tail, 2)
	assert.Equal(t, domain.ImageEventType, tail[0].Type)
	assert.Equal(t, domain.DoneEventType, tail[1].Type)
}

func TestRunUtterance_TranscriptionFailureEmitsErrorEvent(t *testing.T) {
	ports := defaultPorts()
	ports.transcriber.err = &domain.TranscriptionError{Err: errors.New("boom")}
	orchestrator := newTestOrchestrator(t, OrchestratorConfig{Language: "he"}, ports)

	events := collect(orchestrator.RunUtterance(context.Background(), testPayload()))

	require.Len(t, events, 1)
	assert.Equal(t, domain.ErrorEventType, events[0].Type)
	payload := events[0].Value.(domain.ErrorPayload)
	assert.Equal(t, domain.TranscriptionStage, payload.Stage)
}

func TestRunUtterance_IllustrationFailureStillFinishes(t *testing.T) {
	ports := defaultPorts()
	ports.illustrator.err = &domain.IllustrationError{Err: errors.New("boom")}
	orchestrator := newTestOrchestrator(t, OrchestratorConfig{Language: "he"}, ports)

	events := collect(orchestrator.RunUtterance(context.Background(), testPayload()))

	assert.Equal(t, domain.DoneEventType, events[len(events)-1].Type)

	var sawError, sawText bool
	for _, ev := range events {
		switch ev.Type {
		case domain.ErrorEventType:
			sawError = true
			assert.Equal(t, domain.IllustrationStage, ev.Value.(domain.ErrorPayload).Stage)
		case domain.TextEventType:
			sawText = true
		case domain.ImageEventType:
			t.Fatal("image event after illustration failure")
		}
	}
	assert.True(t, sawError, "illustration failure must surface as an error event")
	assert.True(t, sawText, "text delivery must not block on the illustration failure")
}

func TestRunUtterance_NormalizeFailureEmitsTranscodingStage(t *testing.T) {
	ports := defaultPorts()
	ports.normalizer.err = &domain.TranscodingError{ContentType: "video/mp4", Size: 3, Err: errors.New("exit 1")}
	orchestrator := newTestOrchestrator(t, OrchestratorConfig{Language: "he"}, ports)

	events := collect(orchestrator.RunUtterance(context.Background(), testPayload()))

	require.Len(t, events, 1)
	assert.Equal(t, domain.TranscodingStage, events[0].Value.(domain.ErrorPayload).Stage)
}

func TestCreateStory_AssemblesResult(t *testing.T) {
	ports := defaultPorts()
	orchestrator := newTestOrchestrator(t, OrchestratorConfig{Language: "he"}, ports)

	result, err := orchestrator.CreateStory(context.Background(), testPayload())
	require.NoError(t, err)

	assert.Equal(t, "הדרקון", result.Title)
	assert.Equal(t, "פעם אחת", result.Text)
	assert.Equal(t, "https://images.example/1.png", result.ImageURL)
	assert.Empty(t, result.Questions)
	assert.Equal(t, "ספר לי על דרקון", ports.planner.gotSource)
}

func TestCreateStory_StreamFailureAborts(t *testing.T) {
	ports := defaultPorts()
	ports.streamer.err = &domain.StreamingError{Err: errors.New("boom")}
	orchestrator := newTestOrchestrator(t, OrchestratorConfig{Language: "he"}, ports)

	_, err := orchestrator.CreateStory(context.Background(), testPayload())
	require.Error(t, err)

	var streaming *domain.StreamingError
	assert.True(t, errors.As(err, &streaming))
}

func TestCreateStoryFromRandomTopic_WithQuestions(t *testing.T) {
	ports := defaultPorts()
	orchestrator := newTestOrchestrator(t, OrchestratorConfig{
		Language:      "he",
		Topics:        []string{"a dragon who is afraid of fire"},
		WithQuestions: true,
	}, ports)

	result, err := orchestrator.CreateStoryFromRandomTopic(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "a dragon who is afraid of fire", ports.planner.gotSource)
	assert.Equal(t, "סיפור מלא", result.Text)
	assert.Equal(t, []string{"?"}, result.Questions)
	assert.Equal(t, "https://images.example/1.png", result.ImageURL)
}

func TestCreateStoryFromRandomTopic_NoTopics(t *testing.T) {
	orchestrator := newTestOrchestrator(t, OrchestratorConfig{Language: "he"}, defaultPorts())

	_, err := orchestrator.CreateStoryFromRandomTopic(context.Background())
	assert.Error(t, err)
}
