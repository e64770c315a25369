package config

type GptConfig struct {
	Model        string
	SystemPrompt string
}

func GetGptConfig() *GptConfig {
	return &GptConfig{
		Model:        envOr("GPT_MODEL", "gpt-4o"),
		SystemPrompt: envOr("GPT_SYSTEM_PROMPT", "You make up cool stories in hebrew"),
	}
}
