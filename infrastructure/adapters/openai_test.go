package adapters

import (
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

// newTestOpenAIClient points a go-openai client at a local httptest server
// standing in for the OpenAI API.
func newTestOpenAIClient(t *testing.T, handler http.Handler) *openai.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = srv.URL + "/v1"
	return openai.NewClientWithConfig(cfg)
}
