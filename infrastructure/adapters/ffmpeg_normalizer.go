package adapters

import (
	"os"
	"os/exec"
	"path/filepath"

	"github.com/yonigottesman/gpt-storyteller/application/ports/outbound"
	"github.com/yonigottesman/gpt-storyteller/domain"
)

type ffmpegNormalizer struct {
	logger outbound.LoggerPort
	binary string
}

// NewFFMPEGAudioNormalizer converts arbitrary uploaded audio/video into
// opus-in-webm, the one format the transcriber accepts. A payload already
// declared as the canonical content type is passed through untouched; only
// an exact, fully qualified match counts, everything else (including an
// empty content type) is transcoded.
func NewFFMPEGAudioNormalizer(logger outbound.LoggerPort) outbound.AudioNormalizerPort {
	return &ffmpegNormalizer{
		logger: logger,
		binary: "ffmpeg",
	}
}

func (f *ffmpegNormalizer) Normalize(payload domain.AudioPayload) (domain.NormalizedAudio, error) {
	if payload.ContentType == domain.CanonicalAudioContentType {
		return domain.NormalizedAudio{
			Data: payload.Data,
			Name: domain.NormalizedAudioName,
		}, nil
	}

	f.logger.InfoWithFields("Converting audio", map[string]interface{}{
		"content_type": payload.ContentType,
		"size":         len(payload.Data),
	})

	tmpDir, err := os.MkdirTemp("", "storyteller-transcode-")
	if err != nil {
		return domain.NormalizedAudio{}, f.transcodingError(payload, err)
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			f.logger.Error(err, "error removing transcode dir")
		}
	}()

	inputFile := filepath.Join(tmpDir, "input")
	if err = os.WriteFile(inputFile, payload.Data, 0o600); err != nil {
		return domain.NormalizedAudio{}, f.transcodingError(payload, err)
	}

	outputFile := filepath.Join(tmpDir, domain.NormalizedAudioName)
	cmd := exec.Command(f.binary, "-i", inputFile,
		"-lossless", "1", "-c:v", "libvpx-vp9", "-c:a", "libopus",
		"-crf", "30", "-b:v", "0", "-b:a", "192k", outputFile)
	if out, err := cmd.CombinedOutput(); err != nil {
		f.logger.ErrorWithFields(err, "ffmpeg failed", map[string]interface{}{
			"content_type": payload.ContentType,
			"output":       string(out),
		})
		return domain.NormalizedAudio{}, f.transcodingError(payload, err)
	}

	data, err := os.ReadFile(outputFile)
	if err != nil {
		return domain.NormalizedAudio{}, f.transcodingError(payload, err)
	}

	return domain.NormalizedAudio{
		Data: data,
		Name: domain.NormalizedAudioName,
	}, nil
}

func (f *ffmpegNormalizer) transcodingError(payload domain.AudioPayload, err error) error {
	return &domain.TranscodingError{
		ContentType: payload.ContentType,
		Size:        len(payload.Data),
		Err:         err,
	}
}
