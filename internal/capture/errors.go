package capture

import "errors"

// ErrAutomationFailure wraps every error raised while driving the browser.
var ErrAutomationFailure = errors.New("automation failure")

var errEmptyScreenshot = errors.New("screenshot is empty")
