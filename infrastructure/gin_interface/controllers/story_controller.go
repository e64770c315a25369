package controllers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yonigottesman/gpt-storyteller/application/ports/inbound"
	"github.com/yonigottesman/gpt-storyteller/application/ports/outbound"
	"github.com/yonigottesman/gpt-storyteller/domain"
	"github.com/yonigottesman/gpt-storyteller/infrastructure/gin_interface/dto"
)

// StoryController serves the request/response variants: a single multipart
// upload, or a randomized topic with no audio at all.
type StoryController interface {
	CreateStory(c *gin.Context)
	CreateRandomStory(c *gin.Context)
	RegisterRoutes(g *gin.Engine)
}

type storyController struct {
	logger       outbound.LoggerPort
	orchestrator inbound.SessionOrchestratorPort
}

func NewStoryController(logger outbound.LoggerPort, orchestrator inbound.SessionOrchestratorPort) StoryController {
	return &storyController{
		logger:       logger,
		orchestrator: orchestrator,
	}
}

func (s *storyController) CreateStory(c *gin.Context) {
	fileHeader, err := c.FormFile("audio")
	if err != nil {
		s.abort(c, http.StatusBadRequest, err)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		s.abort(c, http.StatusBadRequest, err)
		return
	}
	defer func() {
		if err := file.Close(); err != nil {
			s.logger.Error(err, "failed to close uploaded file")
		}
	}()

	data, err := io.ReadAll(file)
	if err != nil {
		s.abort(c, http.StatusBadRequest, err)
		return
	}

	result, err := s.orchestrator.CreateStory(c.Request.Context(), domain.AudioPayload{
		Data:        data,
		ContentType: fileHeader.Header.Get("Content-Type"),
	})
	if err != nil {
		s.abort(c, http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusOK, dto.StoryResponseFrom(result))
}

func (s *storyController) CreateRandomStory(c *gin.Context) {
	result, err := s.orchestrator.CreateStoryFromRandomTopic(c.Request.Context())
	if err != nil {
		s.abort(c, http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusOK, dto.StoryResponseFrom(result))
}

func (s *storyController) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", nil)
}

func (s *storyController) abort(c *gin.Context, status int, err error) {
	s.logger.Error(err, "Request aborted")
	_ = c.AbortWithError(status, err)
}

func (s *storyController) RegisterRoutes(g *gin.Engine) {
	g.GET("/", s.Index)
	g.POST("/story", s.CreateStory)
	g.POST("/story/random", s.CreateRandomStory)
}
