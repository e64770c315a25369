package adapters

import (
	"context"
	"errors"
	"fmt"
	"io"

	openai "github.com/sashabaranov/go-openai"
	"github.com/yonigottesman/gpt-storyteller/application/ports/outbound"
	"github.com/yonigottesman/gpt-storyteller/config"
	"github.com/yonigottesman/gpt-storyteller/domain"
)

const storyPromptTemplate = `Here is the title and gist of a story in hebrew. You need to write/finish the story,
make it about 20-50 lines long.
title: %s
gist: %s`

type gptStoryStreamer struct {
	logger     outbound.LoggerPort
	client     *openai.Client
	gptConfig  *config.GptConfig
	workerPool outbound.TaskDispatcher
}

func NewGptStoryStreamer(client *openai.Client, gptConfig *config.GptConfig, workerPool outbound.TaskDispatcher, logger outbound.LoggerPort) outbound.StoryStreamerPort {
	return &gptStoryStreamer{
		logger:     logger,
		client:     client,
		gptConfig:  gptConfig,
		workerPool: workerPool,
	}
}

// Stream forwards each delta in arrival order. Fragments with no textual
// content (keep-alive/metadata deltas) are skipped rather than forwarded as
// empty chunks, uniformly for all call sites.
func (g *gptStoryStreamer) Stream(ctx context.Context, brief domain.StoryBrief) (<-chan domain.StoryChunk, <-chan error) {
	out := make(chan domain.StoryChunk)
	errCh := make(chan error, 1)

	err := g.workerPool.Submit(func() {
		defer close(out)
		defer close(errCh)

		stream, err := g.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
			Model:  g.gptConfig.Model,
			Stream: true,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: fmt.Sprintf(storyPromptTemplate, brief.Title, brief.Gist),
				},
			},
		})
		if err != nil {
			g.logger.Error(err, "Failed to open story stream")
			errCh <- &domain.StreamingError{Err: err}
			return
		}
		defer func() {
			if err := stream.Close(); err != nil {
				g.logger.Error(err, "Failed to close story stream")
			}
		}()

		for {
			res, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				g.logger.Debug("Story stream closed")
				return
			}
			if err != nil {
				g.logger.Error(err, "Error receiving story chunk")
				errCh <- &domain.StreamingError{Err: err}
				return
			}
			if len(res.Choices) == 0 || res.Choices[0].Delta.Content == "" {
				continue
			}
			select {
			case <-ctx.Done():
				return
			case out <- domain.StoryChunk(res.Choices[0].Delta.Content):
			}
		}
	})
	if err != nil {
		g.logger.Error(err, "Failed to submit story stream task")
		errCh <- &domain.StreamingError{Err: err}
		close(out)
		close(errCh)
	}

	return out, errCh
}
