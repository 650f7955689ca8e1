// Package metrics provides Prometheus metrics for observability.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ai_interview_client"

// Metrics holds all Prometheus metrics for the client.
type Metrics struct {
	// Recognition session metrics
	RecognitionSessionsTotal prometheus.Counter
	RecognitionActive        prometheus.Gauge
	RecognitionErrors        *prometheus.CounterVec

	// Transcript metrics
	TranscriptsPartial prometheus.Counter
	TranscriptsFinal   prometheus.Counter
	CorrectionsApplied prometheus.Counter

	// Interview session metrics
	InterviewsStarted   prometheus.Counter
	InterviewsCompleted prometheus.Counter
	AnswersSubmitted    prometheus.Counter

	// Backend API metrics
	APIRequestsTotal  *prometheus.CounterVec
	APIRequestErrors  *prometheus.CounterVec
	APIRequestLatency *prometheus.HistogramVec

	// Kafka publish metrics
	KafkaPublishTotal   *prometheus.CounterVec
	KafkaPublishErrors  *prometheus.CounterVec
	KafkaPublishLatency *prometheus.HistogramVec
}

// DefaultMetrics is the global metrics instance.
var DefaultMetrics = NewMetrics()

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		// Recognition session metrics
		RecognitionSessionsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recognition_sessions_total",
			Help:      "Total number of recognition sessions started",
		}),
		RecognitionActive: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "recognition_active",
			Help:      "Whether a recognition session is currently active",
		}),
		RecognitionErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recognition_errors_total",
			Help:      "Total number of recognition errors by classified reason",
		}, []string{"reason"}),

		// Transcript metrics
		TranscriptsPartial: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transcripts_partial_total",
			Help:      "Total number of interim transcript updates received",
		}),
		TranscriptsFinal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transcripts_final_total",
			Help:      "Total number of final transcript results received",
		}),
		CorrectionsApplied: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "vocabulary_corrections_total",
			Help:      "Total number of vocabulary corrections applied to final transcripts",
		}),

		// Interview session metrics
		InterviewsStarted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "interviews_started_total",
			Help:      "Total number of interview sessions started",
		}),
		InterviewsCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "interviews_completed_total",
			Help:      "Total number of interview sessions completed",
		}),
		AnswersSubmitted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "answers_submitted_total",
			Help:      "Total number of answers submitted to the interview service",
		}),

		// Backend API metrics
		APIRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "Total number of interview service API requests",
		}, []string{"operation"}),
		APIRequestErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_request_errors_total",
			Help:      "Total number of failed interview service API requests",
		}, []string{"operation"}),
		APIRequestLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_request_latency_seconds",
			Help:      "Interview service API request latency in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		}, []string{"operation"}),

		// Kafka publish metrics
		KafkaPublishTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_publish_total",
			Help:      "Total number of Kafka messages published",
		}, []string{"topic", "event_type"}),
		KafkaPublishErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_publish_errors_total",
			Help:      "Total number of Kafka publish errors",
		}, []string{"topic", "event_type"}),
		KafkaPublishLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "kafka_publish_latency_seconds",
			Help:      "Kafka publish latency in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"topic"}),
	}
}

// RecordRecognitionStart records a recognition session starting.
func (m *Metrics) RecordRecognitionStart() {
	m.RecognitionSessionsTotal.Inc()
	m.RecognitionActive.Set(1)
}

// RecordRecognitionEnd records a recognition session ending.
func (m *Metrics) RecordRecognitionEnd() {
	m.RecognitionActive.Set(0)
}

// RecordRecognitionError records a classified recognition error.
func (m *Metrics) RecordRecognitionError(reason string) {
	m.RecognitionErrors.WithLabelValues(reason).Inc()
}

// RecordPartialTranscript records an interim transcript update.
func (m *Metrics) RecordPartialTranscript() {
	m.TranscriptsPartial.Inc()
}

// RecordFinalTranscript records a final transcript result.
func (m *Metrics) RecordFinalTranscript() {
	m.TranscriptsFinal.Inc()
}

// RecordCorrections records vocabulary corrections applied to a final result.
func (m *Metrics) RecordCorrections(count int) {
	m.CorrectionsApplied.Add(float64(count))
}

// RecordInterviewStarted records an interview session starting.
func (m *Metrics) RecordInterviewStarted() {
	m.InterviewsStarted.Inc()
}

// RecordInterviewCompleted records an interview session reaching completion.
func (m *Metrics) RecordInterviewCompleted() {
	m.InterviewsCompleted.Inc()
}

// RecordAnswerSubmitted records an answer submission.
func (m *Metrics) RecordAnswerSubmitted() {
	m.AnswersSubmitted.Inc()
}

// RecordAPIRequest records an interview service API request.
func (m *Metrics) RecordAPIRequest(operation string, err error, latencySeconds float64) {
	m.APIRequestsTotal.WithLabelValues(operation).Inc()
	m.APIRequestLatency.WithLabelValues(operation).Observe(latencySeconds)
	if err != nil {
		m.APIRequestErrors.WithLabelValues(operation).Inc()
	}
}

// RecordKafkaPublish records a Kafka publish attempt.
func (m *Metrics) RecordKafkaPublish(topic, eventType string, err error, latencySeconds float64) {
	m.KafkaPublishTotal.WithLabelValues(topic, eventType).Inc()
	m.KafkaPublishLatency.WithLabelValues(topic).Observe(latencySeconds)
	if err != nil {
		m.KafkaPublishErrors.WithLabelValues(topic, eventType).Inc()
	}
}
