package adapters

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"github.com/yonigottesman/gpt-storyteller/application/ports/outbound"
	"github.com/yonigottesman/gpt-storyteller/config"
	"github.com/yonigottesman/gpt-storyteller/domain"
)

const illustrationPromptTemplate = `generate an image for this short story. The image should contain the scene from the story. no text.:
title: %s
story_gist: %s
requested_story: %s`

type dalleIllustrator struct {
	logger      outbound.LoggerPort
	client      *openai.Client
	dalleConfig *config.DalleConfig
}

func NewDalleIllustrator(client *openai.Client, dalleConfig *config.DalleConfig, logger outbound.LoggerPort) outbound.IllustratorPort {
	return &dalleIllustrator{
		logger:      logger,
		client:      client,
		dalleConfig: dalleConfig,
	}
}

func (d *dalleIllustrator) Illustrate(ctx context.Context, brief domain.StoryBrief, extraContext string) (domain.Illustration, error) {
	res, err := d.client.CreateImage(ctx, openai.ImageRequest{
		Model:   d.dalleConfig.Model,
		Prompt:  fmt.Sprintf(illustrationPromptTemplate, brief.Title, brief.Gist, extraContext),
		Size:    d.dalleConfig.Size,
		Quality: d.dalleConfig.Quality,
		N:       1,
	})
	if err != nil {
		d.logger.Error(err, "Failed to generate illustration")
		return domain.Illustration{}, &domain.IllustrationError{Err: err}
	}
	if len(res.Data) == 0 {
		err = fmt.Errorf("image response contained no data")
		d.logger.Error(err, "Failed to generate illustration")
		return domain.Illustration{}, &domain.IllustrationError{Err: err}
	}

	return domain.Illustration{URL: res.Data[0].URL}, nil
}
