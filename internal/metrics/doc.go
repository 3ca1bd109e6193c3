// Package metrics records what a build run did: how long each stage took,
// how many times the build was polled, how polling failed, and how the
// remote build ended.
//
// Components receive a Recorder and default to NoopRecorder, so no nil
// checks are needed:
//
//	mon := monitor.New(client, appID, monitor.WithRecorder(recorder))
//
// A run is a short-lived process, so there is no scrape endpoint. The
// Prometheus implementation writes its registry to a node_exporter textfile
// when the run ends (see PrometheusRecorder.WriteTextfile).
package metrics
