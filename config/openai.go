package config

import (
	"fmt"
	"os"
)

type OpenAIConfig struct {
	ApiKey string
}

func GetOpenAIConfig() (*OpenAIConfig, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY must be set")
	}

	return &OpenAIConfig{
		ApiKey: apiKey,
	}, nil
}
