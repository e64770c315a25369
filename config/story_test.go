package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetStoryConfig_Defaults(t *testing.T) {
	t.Setenv("STORY_TOPICS", "")
	t.Setenv("STORY_QUESTIONS", "")

	storyConfig := GetStoryConfig()

	assert.NotEmpty(t, storyConfig.Topics)
	assert.False(t, storyConfig.WithQuestions)
}

func TestGetStoryConfig_ParsesTopicList(t *testing.T) {
	t.Setenv("STORY_TOPICS", "a lonely lighthouse, , a singing whale ")
	t.Setenv("STORY_QUESTIONS", "1")

	storyConfig := GetStoryConfig()

	assert.Equal(t, []string{"a lonely lighthouse", "a singing whale"}, storyConfig.Topics)
	assert.True(t, storyConfig.WithQuestions)
}
