// Package resolve turns the names given in a run's configuration into the
// build service records a build request references.
//
// Every lookup is an exact match against a list fetched from the service for
// the current app. Optional inputs that are not set resolve to nil without
// contacting the service.
package resolve
