package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	openai "github.com/sashabaranov/go-openai"
	"github.com/yonigottesman/gpt-storyteller/application/ports/outbound"
	"github.com/yonigottesman/gpt-storyteller/config"
	"github.com/yonigottesman/gpt-storyteller/domain"
)

const briefPromptTemplate = `here is a user request in hebrew for a short story. return a json with 'title' and 'snippet'.
the snippet should be about 30 words long and only contain the main idea and scenery of the story. It will be used to create an
image of the story so should contain any visual aspects of the story.
USER_REQUEST: %s`

const fullStoryPromptTemplate = `here is a user request in hebrew for a short story. return a json with 'title', 'text' and 'questions'.
'text' is the full story, about 20-50 lines long. 'questions' is a list of 3 short comprehension questions about the story.
USER_REQUEST: %s`

type briefResponse struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

type fullStoryResponse struct {
	Title     string   `json:"title"`
	Text      string   `json:"text"`
	Questions []string `json:"questions"`
}

type gptStoryPlanner struct {
	logger    outbound.LoggerPort
	client    *openai.Client
	gptConfig *config.GptConfig
}

func NewGptStoryPlanner(client *openai.Client, gptConfig *config.GptConfig, logger outbound.LoggerPort) outbound.StoryPlannerPort {
	return &gptStoryPlanner{
		logger:    logger,
		client:    client,
		gptConfig: gptConfig,
	}
}

// Plan asks for the title/gist shape with temperature pinned to zero so the
// structure stays stable between calls.
func (g *gptStoryPlanner) Plan(ctx context.Context, sourceText string) (domain.StoryBrief, error) {
	content, err := g.complete(ctx, fmt.Sprintf(briefPromptTemplate, sourceText), true)
	if err != nil {
		return domain.StoryBrief{}, err
	}

	var brief briefResponse
	if err = json.Unmarshal([]byte(content), &brief); err != nil {
		g.logger.ErrorWithFields(err, "Plan response is not valid JSON", map[string]interface{}{
			"raw": content,
		})
		return domain.StoryBrief{}, &domain.MalformedPlanError{Raw: content, Err: err}
	}
	if brief.Title == "" || brief.Snippet == "" {
		err = fmt.Errorf("missing title or snippet")
		g.logger.ErrorWithFields(err, "Plan response is missing required fields", map[string]interface{}{
			"raw": content,
		})
		return domain.StoryBrief{}, &domain.MalformedPlanError{Raw: content, Err: err}
	}

	return domain.StoryBrief{
		Title: brief.Title,
		Gist:  brief.Snippet,
	}, nil
}

// PlanFull asks for the whole story at once with default sampling, since
// creative variety is wanted for the long form.
func (g *gptStoryPlanner) PlanFull(ctx context.Context, sourceText string) (domain.FullStoryPlan, error) {
	content, err := g.complete(ctx, fmt.Sprintf(fullStoryPromptTemplate, sourceText), false)
	if err != nil {
		return domain.FullStoryPlan{}, err
	}

	var full fullStoryResponse
	if err = json.Unmarshal([]byte(content), &full); err != nil {
		return domain.FullStoryPlan{}, &domain.MalformedPlanError{Raw: content, Err: err}
	}
	if full.Title == "" || full.Text == "" {
		return domain.FullStoryPlan{}, &domain.MalformedPlanError{
			Raw: content,
			Err: fmt.Errorf("missing title or text"),
		}
	}

	return domain.FullStoryPlan{
		Title:     full.Title,
		Text:      full.Text,
		Questions: full.Questions,
	}, nil
}

func (g *gptStoryPlanner) complete(ctx context.Context, prompt string, deterministic bool) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: g.gptConfig.Model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: g.gptConfig.SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}
	if deterministic {
		// a literal 0 is dropped by the omitempty tag on Temperature
		req.Temperature = math.SmallestNonzeroFloat32
	}

	res, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		g.logger.Error(err, "Failed to create plan completion")
		return "", &domain.PlanningError{Err: err}
	}
	if len(res.Choices) == 0 {
		return "", &domain.PlanningError{Err: fmt.Errorf("completion returned no choices")}
	}

	return res.Choices[0].Message.Content, nil
}
