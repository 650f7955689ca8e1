// Package config loads client configuration from the environment.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// ServiceConfig holds process-level settings.
type ServiceConfig struct {
	Principal      string
	Env            string
	LogLevel       string
	MetricsAddr    string
	MetricsEnabled bool
}

// BackendConfig holds interview service connection settings.
type BackendConfig struct {
	BaseURL string
}

// RecognitionConfig holds speech recognition settings.
type RecognitionConfig struct {
	Provider       string // mock, google
	LanguageCode   string
	SampleRateHz   int
	InterimResults bool
	PhraseHints    bool
	AudioSource    string // path to raw PCM audio, "-" for stdin (google provider)
}

// KafkaConfig holds transcript event publishing settings.
type KafkaConfig struct {
	Enabled      bool
	Brokers      []string
	TopicPartial string
	TopicFinal   string
	Principal    string
}

// Configuration is the complete client configuration.
type Configuration struct {
	Service     ServiceConfig
	Backend     BackendConfig
	Recognition RecognitionConfig
	Kafka       KafkaConfig
}

// Load reads configuration from the environment, with defaults for every
// value. A .env file in the working directory is loaded first if present.
func Load() *Configuration {
	// Environment variables set in the shell win over .env entries.
	_ = godotenv.Load()

	principal := envOrDefault("SERVICE_PRINCIPAL", "interview-voice-client")

	return &Configuration{
		Service: ServiceConfig{
			Principal:      principal,
			Env:            envOrDefault("ENV", ""),
			LogLevel:       envOrDefault("LOG_LEVEL", "info"),
			MetricsAddr:    envOrDefault("METRICS_ADDR", ":9091"),
			MetricsEnabled: envBool("METRICS_ENABLED", true),
		},
		Backend: BackendConfig{
			BaseURL: envOrDefault("BACKEND_BASE_URL", "http://localhost:8000/api/v1"),
		},
		Recognition: RecognitionConfig{
			Provider:       envOrDefault("RECOGNITION_PROVIDER", "mock"),
			LanguageCode:   envOrDefault("RECOGNITION_LANGUAGE_CODE", "en-US"),
			SampleRateHz:   envInt("RECOGNITION_SAMPLE_RATE_HZ", 16000),
			InterimResults: envBool("RECOGNITION_INTERIM_RESULTS", true),
			PhraseHints:    envBool("RECOGNITION_PHRASE_HINTS", true),
			AudioSource:    envOrDefault("RECOGNITION_AUDIO_SOURCE", "-"),
		},
		Kafka: KafkaConfig{
			Enabled:      envBool("KAFKA_ENABLED", false),
			Brokers:      envList("KAFKA_BROKERS"),
			TopicPartial: envOrDefault("KAFKA_TOPIC_PARTIAL", "interview.transcript.partial"),
			TopicFinal:   envOrDefault("KAFKA_TOPIC_FINAL", "interview.transcript.final"),
			Principal:    principal,
		},
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return parsed
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return parsed
}

func envList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
