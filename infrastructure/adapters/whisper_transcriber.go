package adapters

import (
	"bytes"
	"context"

	openai "github.com/sashabaranov/go-openai"
	"github.com/yonigottesman/gpt-storyteller/application/ports/outbound"
	"github.com/yonigottesman/gpt-storyteller/config"
	"github.com/yonigottesman/gpt-storyteller/domain"
)

type whisperTranscriber struct {
	logger        outbound.LoggerPort
	client        *openai.Client
	whisperConfig *config.WhisperConfig
}

func NewWhisperTranscriber(client *openai.Client, whisperConfig *config.WhisperConfig, logger outbound.LoggerPort) outbound.TranscriberPort {
	return &whisperTranscriber{
		logger:        logger,
		client:        client,
		whisperConfig: whisperConfig,
	}
}

func (w *whisperTranscriber) Transcribe(ctx context.Context, audio domain.NormalizedAudio, language string) (string, error) {
	res, err := w.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    w.whisperConfig.Model,
		FilePath: audio.Name,
		Reader:   bytes.NewReader(audio.Data),
		Language: language,
	})
	if err != nil {
		w.logger.Error(err, "Failed to transcribe audio")
		return "", &domain.TranscriptionError{Err: err}
	}

	w.logger.DebugWithFields("Transcribed audio", map[string]interface{}{
		"chars": len(res.Text),
	})

	return res.Text, nil
}
