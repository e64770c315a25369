package config

type WhisperConfig struct {
	Model    string
	Language string
}

func GetWhisperConfig() *WhisperConfig {
	return &WhisperConfig{
		Model:    envOr("WHISPER_MODEL", "whisper-1"),
		Language: envOr("WHISPER_LANGUAGE", "he"),
	}
}
