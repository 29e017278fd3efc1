package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	STTWhisper  = "whisper"
	STTDeepgram = "deepgram"

	LLMOllama = "ollama"
	LLMOpenAI = "openai"

	TTSXTTS       = "xtts"
	TTSElevenLabs = "elevenlabs"
	TTSOpenAI     = "openai"
)

type Config struct {
	Port               string
	AllowedOrigins     []string
	RateLimitPerMinute int
	MaxUploadBytes     int64
	TempDir            string
	StageTimeout       time.Duration

	STT STTConfig
	LLM LLMConfig
	TTS TTSConfig

	S3       S3Config
	Telegram TelegramConfig
}

type STTConfig struct {
	Provider       string
	Language       string
	WhisperBaseURL string
	WhisperAPIKey  string
	WhisperModel   string
	DeepgramAPIKey string
}

type LLMConfig struct {
	Provider            string
	OllamaURL           string
	OllamaModel         string
	OpenAIAPIKey        string
	OpenAIModel         string
	ReplyMaxChars       int
	RequireAnswerMarker bool
}

type TTSConfig struct {
	Provider          string
	Language          string
	XTTSURL           string
	ReferenceVoice    string
	ElevenLabsAPIKey  string
	ElevenLabsVoiceID string
	ElevenLabsModel   string
	OpenAIAPIKey      string
	OpenAIVoice       string
}

type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
}

// Enabled: архив включается только при заданном бакете.
func (c S3Config) Enabled() bool { return c.Bucket != "" }

type TelegramConfig struct {
	BotToken    string
	AdminChatID int64
	VoiceBot    bool // принимать голосовые в самом боте
}

func (c TelegramConfig) Enabled() bool { return c.BotToken != "" && c.AdminChatID != 0 }

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds the config from a lookup func, so tests don't touch the
// process env.
func FromEnv(getenv func(string) string) (*Config, error) {
	env := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := &Config{
		Port:           env("PORT", "8000"),
		AllowedOrigins: splitList(env("ALLOWED_ORIGINS", "http://localhost:3000")),
		TempDir:        env("TEMP_DIR", os.TempDir()),
	}

	var err error
	if cfg.RateLimitPerMinute, err = atoi(env("RATE_LIMIT_PER_MINUTE", "30"), "RATE_LIMIT_PER_MINUTE"); err != nil {
		return nil, err
	}
	uploadMB, err := atoi(env("MAX_UPLOAD_MB", "25"), "MAX_UPLOAD_MB")
	if err != nil {
		return nil, err
	}
	if uploadMB <= 0 {
		return nil, fmt.Errorf("MAX_UPLOAD_MB must be positive, got %d", uploadMB)
	}
	cfg.MaxUploadBytes = int64(uploadMB) << 20

	if cfg.StageTimeout, err = time.ParseDuration(env("STAGE_TIMEOUT", "120s")); err != nil {
		return nil, fmt.Errorf("invalid STAGE_TIMEOUT: %w", err)
	}
	if cfg.StageTimeout <= 0 {
		return nil, fmt.Errorf("STAGE_TIMEOUT must be positive")
	}

	openAIKey := env("OPENAI_API_KEY", "")

	cfg.STT = STTConfig{
		Provider:       strings.ToLower(env("STT_PROVIDER", STTWhisper)),
		Language:       env("STT_LANGUAGE", "en"),
		WhisperBaseURL: env("WHISPER_BASE_URL", "https://api.openai.com/v1"),
		WhisperAPIKey:  env("WHISPER_API_KEY", openAIKey),
		WhisperModel:   env("WHISPER_MODEL", "whisper-1"),
		DeepgramAPIKey: env("DEEPGRAM_API_KEY", ""),
	}

	cfg.LLM = LLMConfig{
		Provider:     strings.ToLower(env("LLM_PROVIDER", LLMOllama)),
		OllamaURL:    env("OLLAMA_URL", "http://localhost:11434"),
		OllamaModel:  env("OLLAMA_MODEL", "deepseek-r1:7b"),
		OpenAIAPIKey: openAIKey,
		OpenAIModel:  env("OPENAI_MODEL", "gpt-4o-mini"),
	}
	if cfg.LLM.ReplyMaxChars, err = atoi(env("REPLY_MAX_CHARS", "0"), "REPLY_MAX_CHARS"); err != nil {
		return nil, err
	}
	if cfg.LLM.RequireAnswerMarker, err = strconv.ParseBool(env("REQUIRE_ANSWER_MARKER", "false")); err != nil {
		return nil, fmt.Errorf("invalid REQUIRE_ANSWER_MARKER: %w", err)
	}

	cfg.TTS = TTSConfig{
		Provider:          strings.ToLower(env("TTS_PROVIDER", TTSXTTS)),
		Language:          env("TTS_LANGUAGE", "en"),
		XTTSURL:           env("XTTS_URL", "http://localhost:5002"),
		ReferenceVoice:    env("TTS_REFERENCE_VOICE", "reference.wav"),
		ElevenLabsAPIKey:  env("ELEVENLABS_API_KEY", ""),
		ElevenLabsVoiceID: env("ELEVENLABS_VOICE_ID", "EXAVITQu4vr4xnSDxMaL"), // Rachel
		ElevenLabsModel:   env("ELEVENLABS_MODEL", "eleven_multilingual_v2"),
		OpenAIAPIKey:      openAIKey,
		OpenAIVoice:       env("OPENAI_TTS_VOICE", "alloy"),
	}

	cfg.S3 = S3Config{
		Endpoint:  env("S3_ENDPOINT", ""),
		AccessKey: env("S3_ACCESS_KEY", ""),
		SecretKey: env("S3_SECRET_KEY", ""),
		Bucket:    env("S3_BUCKET", ""),
		Region:    env("S3_REGION", ""),
	}

	cfg.Telegram.BotToken = env("TELEGRAM_BOT_TOKEN", "")
	if cfg.Telegram.VoiceBot, err = strconv.ParseBool(env("TELEGRAM_VOICE_BOT", "false")); err != nil {
		return nil, fmt.Errorf("invalid TELEGRAM_VOICE_BOT: %w", err)
	}
	if raw := env("ADMIN_CHAT_ID", ""); raw != "" {
		if cfg.Telegram.AdminChatID, err = strconv.ParseInt(raw, 10, 64); err != nil {
			return nil, fmt.Errorf("invalid ADMIN_CHAT_ID: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.STT.Provider {
	case STTWhisper:
		if c.STT.WhisperAPIKey == "" && strings.Contains(c.STT.WhisperBaseURL, "api.openai.com") {
			return fmt.Errorf("OPENAI_API_KEY or WHISPER_API_KEY is required for the hosted whisper endpoint")
		}
	case STTDeepgram:
		if c.STT.DeepgramAPIKey == "" {
			return fmt.Errorf("DEEPGRAM_API_KEY not set")
		}
	default:
		return fmt.Errorf("unknown STT_PROVIDER %q", c.STT.Provider)
	}

	switch c.LLM.Provider {
	case LLMOllama:
	case LLMOpenAI:
		if c.LLM.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY not set")
		}
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q", c.LLM.Provider)
	}
	if c.LLM.ReplyMaxChars < 0 {
		return fmt.Errorf("REPLY_MAX_CHARS must not be negative")
	}

	switch c.TTS.Provider {
	case TTSXTTS:
	case TTSElevenLabs:
		if c.TTS.ElevenLabsAPIKey == "" {
			return fmt.Errorf("ELEVENLABS_API_KEY not set")
		}
	case TTSOpenAI:
		if c.TTS.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY not set")
		}
	default:
		return fmt.Errorf("unknown TTS_PROVIDER %q", c.TTS.Provider)
	}

	if c.RateLimitPerMinute < 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must not be negative")
	}
	if c.S3.Enabled() && c.S3.Endpoint == "" {
		return fmt.Errorf("S3_ENDPOINT is required when S3_BUCKET is set")
	}
	if c.Telegram.VoiceBot && c.Telegram.BotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN is required for TELEGRAM_VOICE_BOT")
	}
	return nil
}

func atoi(raw, key string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
