package config

import (
	"os"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	envVars := []string{
		"SERVICE_PRINCIPAL", "ENV", "LOG_LEVEL", "METRICS_ADDR", "METRICS_ENABLED",
		"BACKEND_BASE_URL",
		"RECOGNITION_PROVIDER", "RECOGNITION_LANGUAGE_CODE", "RECOGNITION_SAMPLE_RATE_HZ",
		"RECOGNITION_INTERIM_RESULTS", "RECOGNITION_PHRASE_HINTS", "RECOGNITION_AUDIO_SOURCE",
		"KAFKA_ENABLED", "KAFKA_BROKERS", "KAFKA_TOPIC_PARTIAL", "KAFKA_TOPIC_FINAL",
	}
	for _, v := range envVars {
		os.Unsetenv(v)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()

	// Service defaults
	if cfg.Service.Principal != "interview-voice-client" {
		t.Errorf("expected default principal 'interview-voice-client', got %s", cfg.Service.Principal)
	}
	if cfg.Service.LogLevel != "info" {
		t.Errorf("expected default log level 'info', got %s", cfg.Service.LogLevel)
	}
	if cfg.Service.MetricsAddr != ":9091" {
		t.Errorf("expected default metrics addr ':9091', got %s", cfg.Service.MetricsAddr)
	}
	if !cfg.Service.MetricsEnabled {
		t.Error("expected metrics enabled by default")
	}

	// Backend defaults
	if cfg.Backend.BaseURL != "http://localhost:8000/api/v1" {
		t.Errorf("expected default backend base URL, got %s", cfg.Backend.BaseURL)
	}

	// Recognition defaults
	if cfg.Recognition.Provider != "mock" {
		t.Errorf("expected default recognition provider 'mock', got %s", cfg.Recognition.Provider)
	}
	if cfg.Recognition.LanguageCode != "en-US" {
		t.Errorf("expected default language 'en-US', got %s", cfg.Recognition.LanguageCode)
	}
	if cfg.Recognition.SampleRateHz != 16000 {
		t.Errorf("expected default sample rate 16000, got %d", cfg.Recognition.SampleRateHz)
	}
	if !cfg.Recognition.InterimResults {
		t.Error("expected interim results enabled by default")
	}
	if !cfg.Recognition.PhraseHints {
		t.Error("expected phrase hints enabled by default")
	}

	// Kafka defaults
	if cfg.Kafka.Enabled {
		t.Error("expected Kafka disabled by default")
	}
	if cfg.Kafka.Brokers != nil {
		t.Errorf("expected no default brokers, got %v", cfg.Kafka.Brokers)
	}
	if cfg.Kafka.TopicPartial != "interview.transcript.partial" {
		t.Errorf("unexpected partial topic: %s", cfg.Kafka.TopicPartial)
	}
	if cfg.Kafka.TopicFinal != "interview.transcript.final" {
		t.Errorf("unexpected final topic: %s", cfg.Kafka.TopicFinal)
	}
	if cfg.Kafka.Principal != cfg.Service.Principal {
		t.Errorf("expected Kafka principal to match service principal, got %s", cfg.Kafka.Principal)
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SERVICE_PRINCIPAL", "test-client")
	t.Setenv("BACKEND_BASE_URL", "http://interview.internal/api/v1")
	t.Setenv("RECOGNITION_PROVIDER", "google")
	t.Setenv("RECOGNITION_SAMPLE_RATE_HZ", "8000")
	t.Setenv("RECOGNITION_PHRASE_HINTS", "false")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "broker-1:9092, broker-2:9092")

	cfg := Load()

	if cfg.Service.Principal != "test-client" {
		t.Errorf("expected principal 'test-client', got %s", cfg.Service.Principal)
	}
	if cfg.Backend.BaseURL != "http://interview.internal/api/v1" {
		t.Errorf("unexpected backend base URL: %s", cfg.Backend.BaseURL)
	}
	if cfg.Recognition.Provider != "google" {
		t.Errorf("expected provider 'google', got %s", cfg.Recognition.Provider)
	}
	if cfg.Recognition.SampleRateHz != 8000 {
		t.Errorf("expected sample rate 8000, got %d", cfg.Recognition.SampleRateHz)
	}
	if cfg.Recognition.PhraseHints {
		t.Error("expected phrase hints disabled")
	}
	if !cfg.Kafka.Enabled {
		t.Error("expected Kafka enabled")
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[0] != "broker-1:9092" || cfg.Kafka.Brokers[1] != "broker-2:9092" {
		t.Errorf("unexpected brokers: %v", cfg.Kafka.Brokers)
	}
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("RECOGNITION_SAMPLE_RATE_HZ", "not-a-number")
	t.Setenv("METRICS_ENABLED", "not-a-bool")

	cfg := Load()

	if cfg.Recognition.SampleRateHz != 16000 {
		t.Errorf("expected fallback sample rate 16000, got %d", cfg.Recognition.SampleRateHz)
	}
	if !cfg.Service.MetricsEnabled {
		t.Error("expected fallback metrics enabled")
	}
}
