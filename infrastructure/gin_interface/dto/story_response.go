package dto

import "github.com/yonigottesman/gpt-storyteller/domain"

type StoryResponse struct {
	Text      string   `json:"text"`
	Title     string   `json:"title"`
	Questions []string `json:"questions,omitempty"`
	ImageURL  string   `json:"image_url"`
}

func StoryResponseFrom(result domain.StoryResult) StoryResponse {
	return StoryResponse{
		Text:      result.Text,
		Title:     result.Title,
		Questions: result.Questions,
		ImageURL:  result.ImageURL,
	}
}
