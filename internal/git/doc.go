// Package git determines the revision a build run is for.
//
// The revision comes from the triggering CI event when it is a pull request,
// then from the workflow's commit variable, and finally from the HEAD of the
// checked out repository.
package git
