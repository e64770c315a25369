package main

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/panjf2000/ants/v2"
	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"
	"github.com/yonigottesman/gpt-storyteller/application/ports/outbound"
	"github.com/yonigottesman/gpt-storyteller/application/services"
	"github.com/yonigottesman/gpt-storyteller/config"
	"github.com/yonigottesman/gpt-storyteller/infrastructure/adapters"
	"github.com/yonigottesman/gpt-storyteller/infrastructure/gin_interface/controllers"
	"github.com/yonigottesman/gpt-storyteller/middleware"
	mockgenerator "github.com/yonigottesman/gpt-storyteller/mock"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("No .env file loaded")
	}

	openaiConfig, err := config.GetOpenAIConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get openai config")
	}

	gptConfig := config.GetGptConfig()
	dalleConfig := config.GetDalleConfig()
	whisperConfig := config.GetWhisperConfig()
	storyConfig := config.GetStoryConfig()
	serverConfig := config.GetServerConfig()

	zeroLogger := adapters.NewZerologWrapper()

	panicHandler := func(p interface{}) {
		zeroLogger.Error(fmt.Errorf("%v", p), "Panic in worker pool")
	}

	workerPool, err := ants.NewPool(120, ants.WithPanicHandler(panicHandler))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create worker pool")
	}
	defer workerPool.Release()

	// one client for the whole process, shared by every session
	client := openai.NewClient(openaiConfig.ApiKey)

	normalizer := adapters.NewFFMPEGAudioNormalizer(zeroLogger)

	var (
		transcriber outbound.TranscriberPort   = adapters.NewWhisperTranscriber(client, whisperConfig, zeroLogger)
		planner     outbound.StoryPlannerPort  = adapters.NewGptStoryPlanner(client, gptConfig, zeroLogger)
		streamer    outbound.StoryStreamerPort = adapters.NewGptStoryStreamer(client, gptConfig, workerPool, zeroLogger)
		illustrator outbound.IllustratorPort   = adapters.NewDalleIllustrator(client, dalleConfig, zeroLogger)
	)

	if os.Getenv("STORYTELLER_MOCK") == "1" {
		zeroLogger.Warn("Running with mock generation adapters")
		transcriber = mockgenerator.NewMockTranscriber()
		planner = mockgenerator.NewMockPlanner()
		streamer = mockgenerator.NewMockStreamer(workerPool)
		illustrator = mockgenerator.NewMockIllustrator()
	}

	orchestrator := services.NewSessionOrchestrator(services.OrchestratorConfig{
		Language:      whisperConfig.Language,
		Topics:        storyConfig.Topics,
		WithQuestions: storyConfig.WithQuestions,
	}, zeroLogger, workerPool, normalizer, transcriber, planner, streamer, illustrator)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(zeroLogger))

	if err = router.SetTrustedProxies(nil); err != nil {
		log.Fatal().Err(err).Msg("Failed to set trusted proxies!")
	}

	router.LoadHTMLGlob("templates/*")

	sessionController := controllers.NewSessionController(zeroLogger, orchestrator)
	storyController := controllers.NewStoryController(zeroLogger, orchestrator)

	sessionController.RegisterRoutes(router)
	storyController.RegisterRoutes(router)

	if err = router.Run(serverConfig.Addr); err != nil {
		log.Fatal().Err(err).Msg("Failed to start server!")
	}
}
