package metrics

import (
	"fmt"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "appflowbuild"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	reg           *prom.Registry
	stageDuration *prom.HistogramVec
	stageResults  *prom.CounterVec
	buildDuration prom.Histogram
	buildOutcome  *prom.CounterVec
	polls         prom.Counter
	pollErrors    *prom.CounterVec
	pollExhausted prom.Counter
	artifactBytes prom.Counter
}

// NewPrometheusRecorder constructs and registers the run metrics on reg, or
// on a fresh registry when reg is nil.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{reg: reg}
	pr.stageDuration = prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "stage_duration_seconds",
		Help:      "Duration of individual run stages",
		Buckets:   prom.DefBuckets,
	}, []string{"stage"})
	pr.stageResults = prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "stage_results_total",
		Help:      "Stage result counts by outcome",
	}, []string{"stage", "result"})
	pr.buildDuration = prom.NewHistogram(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "build_duration_seconds",
		Help:      "Time from dispatch until the remote build reached a terminal state",
		Buckets:   prom.ExponentialBuckets(15, 2, 8),
	})
	pr.buildOutcome = prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "build_outcomes_total",
		Help:      "Remote builds by final state",
	}, []string{"state"})
	pr.polls = prom.NewCounter(prom.CounterOpts{
		Namespace: namespace,
		Name:      "build_polls_total",
		Help:      "Build status requests issued",
	})
	pr.pollErrors = prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "build_poll_errors_total",
		Help:      "Failed build status requests by error category",
	}, []string{"category"})
	pr.pollExhausted = prom.NewCounter(prom.CounterOpts{
		Namespace: namespace,
		Name:      "build_poll_retry_exhausted_total",
		Help:      "Runs aborted after too many consecutive poll errors",
	})
	pr.artifactBytes = prom.NewCounter(prom.CounterOpts{
		Namespace: namespace,
		Name:      "artifact_bytes_total",
		Help:      "Bytes of build artifacts downloaded",
	})
	reg.MustRegister(pr.stageDuration, pr.stageResults, pr.buildDuration, pr.buildOutcome,
		pr.polls, pr.pollErrors, pr.pollExhausted, pr.artifactBytes)
	return pr
}

func (p *PrometheusRecorder) ObserveStageDuration(stage Stage, d time.Duration) {
	if p == nil || p.stageDuration == nil {
		return
	}
	p.stageDuration.WithLabelValues(string(stage)).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStageResult(stage Stage, result ResultLabel) {
	if p == nil || p.stageResults == nil {
		return
	}
	p.stageResults.WithLabelValues(string(stage), string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil || p.buildDuration == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncBuildOutcome(state string) {
	if p == nil || p.buildOutcome == nil {
		return
	}
	p.buildOutcome.WithLabelValues(state).Inc()
}

func (p *PrometheusRecorder) IncPoll() {
	if p == nil || p.polls == nil {
		return
	}
	p.polls.Inc()
}

func (p *PrometheusRecorder) IncPollError(category string) {
	if p == nil || p.pollErrors == nil {
		return
	}
	if category == "" {
		category = "unknown"
	}
	p.pollErrors.WithLabelValues(category).Inc()
}

func (p *PrometheusRecorder) IncPollRetryExhausted() {
	if p == nil || p.pollExhausted == nil {
		return
	}
	p.pollExhausted.Inc()
}

func (p *PrometheusRecorder) AddArtifactBytes(n int64) {
	if p == nil || p.artifactBytes == nil || n <= 0 {
		return
	}
	p.artifactBytes.Add(float64(n))
}

// Registry exposes the registry the recorder writes to.
func (p *PrometheusRecorder) Registry() *prom.Registry { return p.reg }

// WriteTextfile writes every gathered metric to path in the text exposition
// format, for pickup by a node_exporter textfile collector.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	if err := prom.WriteToTextfile(path, p.reg); err != nil {
		return fmt.Errorf("write metrics textfile %s: %w", path, err)
	}
	return nil
}
