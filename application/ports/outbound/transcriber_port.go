package outbound

import (
	"context"

	"github.com/yonigottesman/gpt-storyteller/domain"
)

type TranscriberPort interface {
	Transcribe(ctx context.Context, audio domain.NormalizedAudio, language string) (string, error)
}
