package main

import (
	"errors"

	"github.com/user/forecastbot/pkg/pipeline"
)

// Process exit codes.
const (
	exitOK         = 0
	exitGeneral    = 1
	exitConfig     = 2
	exitNavigation = 3 // navigation, empty content or screenshot
	exitBrowser    = 4
	exitPublish    = 5
)

// exitCode maps err to a process exit code. A run error joins several
// target failures; the first matching class below wins.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, pipeline.ErrConfig):
		return exitConfig
	case errors.Is(err, pipeline.ErrBrowserLaunch):
		return exitBrowser
	case errors.Is(err, pipeline.ErrNavigation),
		errors.Is(err, pipeline.ErrEmptyContent),
		errors.Is(err, pipeline.ErrCapture):
		return exitNavigation
	case errors.Is(err, pipeline.ErrPublish):
		return exitPublish
	default:
		return exitGeneral
	}
}
