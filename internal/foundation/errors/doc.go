// Package errors provides the classified error primitives used across appflowbuild.
//
// Every failure a run can surface falls into one category:
//   - CategoryValidation: unrecognized platform or build type, malformed destinations
//   - CategoryConfig: missing required inputs, unreadable or invalid config file
//   - CategoryNotFound: app, stack, certificate, environment, native config,
//     channel, distribution credential or commit absent after lookup
//   - CategoryAuth: token rejected by the build service
//   - CategoryBuild: the remote build reached a failed or canceled state
//   - CategoryNetwork / CategoryRemote: transport failures and non-2xx responses
//   - CategoryFileSystem: artifact could not be written
//
// Errors are created through the fluent builder:
//
//	err := errors.NotFoundError("Couldn't find Environment with name: prod for App: demo.").
//		WithContext("name", "prod").
//		WithContext("scope", "demo").
//		Build()
package errors
