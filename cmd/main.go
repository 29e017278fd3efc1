package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/Vovarama1992/go-utils/logger"

	"github.com/Vovarama1992/voice_roundtrip/internal/ai"
	"github.com/Vovarama1992/voice_roundtrip/internal/config"
	"github.com/Vovarama1992/voice_roundtrip/internal/delivery"
	"github.com/Vovarama1992/voice_roundtrip/internal/domain"
	"github.com/Vovarama1992/voice_roundtrip/internal/error_notificator"
	"github.com/Vovarama1992/voice_roundtrip/internal/infra"
	"github.com/Vovarama1992/voice_roundtrip/internal/ports"
	"github.com/Vovarama1992/voice_roundtrip/internal/speech"
	"github.com/Vovarama1992/voice_roundtrip/internal/telegram"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

func main() {

	// =========================================================================
	// ENV / CONFIG
	// =========================================================================

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	baseLogger, _ := zap.NewProduction()
	defer baseLogger.Sync()
	zl := logger.NewZapLogger(baseLogger.Sugar())

	// =========================================================================
	// TELEGRAM / ERROR NOTIFICATION
	// =========================================================================

	var bot *tgbotapi.BotAPI
	if cfg.Telegram.BotToken != "" {
		// long polling держит запрос 30s, клиенту нужен запас сверху
		botHTTP := &http.Client{Timeout: 60 * time.Second}
		bot, err = tgbotapi.NewBotAPIWithClient(cfg.Telegram.BotToken, tgbotapi.APIEndpoint, botHTTP)
		if err != nil {
			log.Fatalf("failed to init telegram bot: %v", err)
		}
		log.Printf("[telegram] authorized as @%s", bot.Self.UserName)
	}

	var errInfra error_notificator.Notificator = error_notificator.NewLogInfra(zl)
	if bot != nil && cfg.Telegram.AdminChatID != 0 {
		errInfra = error_notificator.NewTelegramInfra(bot, cfg.Telegram.AdminChatID)
	}
	errService := error_notificator.NewService(errInfra)

	// =========================================================================
	// CLIENTS (STT / LLM / TTS)
	// =========================================================================

	sttClient := newSTTClient(cfg.STT)
	ttsClient := newTTSClient(cfg.TTS)

	llmClient, err := newLLMClient(cfg.LLM)
	if err != nil {
		log.Fatalf("failed to init llm client: %v", err)
	}

	// =========================================================================
	// ARCHIVE (optional)
	// =========================================================================

	var archiver ports.Archiver
	if cfg.S3.Enabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		s3Client, err := infra.NewS3Client(ctx, cfg.S3)
		cancel()
		if err != nil {
			log.Fatalf("failed to init s3: %v", err)
		}
		archiver = domain.NewArchiveService(s3Client)
	}

	// =========================================================================
	// DOMAIN SERVICES
	// =========================================================================

	speechService := speech.NewService(sttClient, ttsClient)

	aiService := ai.NewAiService(llmClient, ai.Options{
		MaxChars:      cfg.LLM.ReplyMaxChars,
		RequireMarker: cfg.LLM.RequireAnswerMarker,
	})

	pipelineService := domain.NewPipelineService(
		speechService, // STT
		aiService,
		speechService, // TTS
		archiver,
		errService,
		zl,
		domain.PipelineConfig{
			TempDir:      cfg.TempDir,
			StageTimeout: cfg.StageTimeout,
		},
	)

	// =========================================================================
	// HTTP ROUTER
	// =========================================================================

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	audioHandler := delivery.NewAudioHandler(pipelineService, cfg.MaxUploadBytes, zl)
	delivery.RegisterRoutes(r, audioHandler, cfg.RateLimitPerMinute)

	// =========================================================================
	// TELEGRAM VOICE BOT
	// =========================================================================

	if cfg.Telegram.VoiceBot {
		voiceBot := telegram.NewVoiceBot(bot, pipelineService, cfg.MaxUploadBytes, zl)
		go voiceBot.Run(context.Background())
	}

	// =========================================================================
	// START SERVER
	// =========================================================================

	addr := ":" + cfg.Port
	zl.Log(logger.LogEntry{
		Level:   "info",
		Message: "listening at " + addr,
		Service: "voice_roundtrip",
		Fields: map[string]any{
			"stt": cfg.STT.Provider,
			"llm": cfg.LLM.Provider,
			"tts": cfg.TTS.Provider,
		},
	})

	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func newSTTClient(c config.STTConfig) ports.STTClient {
	switch c.Provider {
	case config.STTDeepgram:
		return speech.NewDeepgramClient(c.DeepgramAPIKey, c.Language)
	default:
		return speech.NewOpenAIClient(c.WhisperBaseURL, c.WhisperAPIKey, c.WhisperModel, c.Language, "")
	}
}

func newTTSClient(c config.TTSConfig) ports.TTSClient {
	switch c.Provider {
	case config.TTSElevenLabs:
		return speech.NewElevenLabsClient(c.ElevenLabsAPIKey, c.ElevenLabsVoiceID, c.ElevenLabsModel, c.Language)
	case config.TTSOpenAI:
		return speech.NewOpenAIClient("", c.OpenAIAPIKey, "", c.Language, c.OpenAIVoice)
	default:
		return speech.NewXTTSClient(c.XTTSURL, c.ReferenceVoice, c.Language)
	}
}

func newLLMClient(c config.LLMConfig) (ports.LLMClient, error) {
	switch c.Provider {
	case config.LLMOpenAI:
		return ai.NewOpenAIClient(c.OpenAIAPIKey, c.OpenAIModel), nil
	default:
		return ai.NewOllamaClient(c.OllamaURL, c.OllamaModel)
	}
}
