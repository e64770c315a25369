package config

import (
	"os"
	"strings"
)

var defaultTopics = []string{
	"a dragon who is afraid of fire",
	"two kids who find a door to the bottom of the sea",
	"a robot learning to bake bread in a small village",
	"a cat that becomes the captain of a pirate ship",
	"a girl who can talk to the moon",
	"a lost penguin looking for its way home through the desert",
}

type StoryConfig struct {
	// Topics feeds the randomized-prompt variant.
	Topics []string
	// WithQuestions switches single-shot responses to include comprehension
	// questions.
	WithQuestions bool
}

func GetStoryConfig() *StoryConfig {
	topics := defaultTopics
	if raw := os.Getenv("STORY_TOPICS"); raw != "" {
		topics = nil
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				topics = append(topics, t)
			}
		}
	}

	return &StoryConfig{
		Topics:        topics,
		WithQuestions: os.Getenv("STORY_QUESTIONS") == "1",
	}
}
