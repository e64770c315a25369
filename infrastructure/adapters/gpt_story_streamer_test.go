package adapters

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yonigottesman/gpt-storyteller/config"
	"github.com/yonigottesman/gpt-storyteller/domain"
)

func sseHandler(t *testing.T, deltas []string) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		flusher, ok := w.(http.Flusher)
		require.True(t, ok)
		for _, delta := range deltas {
			fmt.Fprintf(w, "data: {\"choices\":[{\"delta\":{\"content\":%q}}]}\n\n", delta)
			flusher.Flush()
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
		flusher.Flush()
	})
}

func newTestStreamer(t *testing.T, handler http.Handler) *gptStoryStreamer {
	t.Helper()
	workerPool, err := ants.NewPool(10)
	require.NoError(t, err)
	t.Cleanup(workerPool.Release)

	client := newTestOpenAIClient(t, handler)
	gptConfig := &config.GptConfig{Model: "gpt-4o", SystemPrompt: "irrelevant"}
	return NewGptStoryStreamer(client, gptConfig, workerPool, NewZerologWrapper()).(*gptStoryStreamer)
}

func TestStream_PreservesOrderAndSkipsEmptyDeltas(t *testing.T) {
	deltas := []string{"פעם", "", " אחת", "", " היה"}
	streamer := newTestStreamer(t, sseHandler(t, deltas))

	chunks, errCh := streamer.Stream(context.Background(), domain.StoryBrief{Title: "t", Gist: "g"})

	var got []string
	for chunk := range chunks {
		got = append(got, string(chunk))
	}
	assert.Equal(t, []string{"פעם", " אחת", " היה"}, got)

	err, ok := <-errCh
	assert.False(t, ok, "no error expected, got %v", err)
}

func TestStream_ServiceErrorIsStreamingError(t *testing.T) {
	streamer := newTestStreamer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"boom"}}`, http.StatusInternalServerError)
	}))

	chunks, errCh := streamer.Stream(context.Background(), domain.StoryBrief{Title: "t", Gist: "g"})

	for range chunks {
	}
	err := <-errCh
	require.Error(t, err)

	var streaming *domain.StreamingError
	assert.True(t, errors.As(err, &streaming))
}

func TestStream_CancelledContextStopsDelivery(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	streamer := newTestStreamer(t, sseHandler(t, []string{"a", "b", "c"}))

	chunks, errCh := streamer.Stream(ctx, domain.StoryBrief{Title: "t", Gist: "g"})

	// take one chunk then walk away
	select {
	case <-chunks:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for first chunk")
	}
	cancel()

	for range chunks {
	}
	<-errCh
}
