package metrics

import "time"

type testRecorder struct {
	NoopRecorder
	stageDurations map[Stage]int
	stageResults   map[Stage]map[ResultLabel]int
}

func newTestRecorder() *testRecorder {
	return &testRecorder{stageDurations: map[Stage]int{}, stageResults: map[Stage]map[ResultLabel]int{}}
}

func (t *testRecorder) ObserveStageDuration(stage Stage, _ time.Duration) {
	t.stageDurations[stage]++
}

func (t *testRecorder) IncStageResult(stage Stage, result ResultLabel) {
	m, ok := t.stageResults[stage]
	if !ok {
		m = map[ResultLabel]int{}
		t.stageResults[stage] = m
	}
	m[result]++
}

var (
	_ Recorder = (*testRecorder)(nil)
	_ Recorder = NoopRecorder{}
	_ Recorder = (*PrometheusRecorder)(nil)
)
