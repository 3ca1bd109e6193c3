package metrics

import "time"

// ResultLabel enumerates stage result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultFailed   ResultLabel = "failed"
	ResultCanceled ResultLabel = "canceled"
)

// Stage names a phase of a run.
type Stage string

const (
	StageResolve  Stage = "resolve"
	StageDispatch Stage = "dispatch"
	StageMonitor  Stage = "monitor"
	StageDownload Stage = "download"
)

// Recorder defines observability hooks for a build run. All methods must be
// cheap; NoopRecorder is used when metrics are not configured.
type Recorder interface {
	ObserveStageDuration(stage Stage, d time.Duration)
	IncStageResult(stage Stage, result ResultLabel)
	ObserveBuildDuration(d time.Duration)
	IncBuildOutcome(state string) // final remote state: success|failed|canceled
	IncPoll()
	IncPollError(category string)
	IncPollRetryExhausted()
	AddArtifactBytes(n int64)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(Stage, time.Duration) {}
func (NoopRecorder) IncStageResult(Stage, ResultLabel)         {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)        {}
func (NoopRecorder) IncBuildOutcome(string)                    {}
func (NoopRecorder) IncPoll()                                  {}
func (NoopRecorder) IncPollError(string)                       {}
func (NoopRecorder) IncPollRetryExhausted()                    {}
func (NoopRecorder) AddArtifactBytes(int64)                    {}

// Timed runs fn and records its duration and result for stage.
func Timed(r Recorder, stage Stage, fn func() error) error {
	start := time.Now()
	err := fn()
	r.ObserveStageDuration(stage, time.Since(start))
	if err != nil {
		r.IncStageResult(stage, ResultFailed)
	} else {
		r.IncStageResult(stage, ResultSuccess)
	}
	return err
}
