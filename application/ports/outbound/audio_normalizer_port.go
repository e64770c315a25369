package outbound

import "github.com/yonigottesman/gpt-storyteller/domain"

type AudioNormalizerPort interface {
	Normalize(payload domain.AudioPayload) (domain.NormalizedAudio, error)
}
