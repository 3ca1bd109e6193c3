// Package pipeline runs one build end to end: it authenticates, resolves
// every configured name against the build service, and hands the resulting
// plan to the dispatcher.
//
// Steps run strictly in sequence since each depends on the app and stack
// resolved before it.
package pipeline
