package cli

import "errors"

// errNoContainer is returned by commands that need a loaded configuration
// when main could not build the container.
var errNoContainer = errors.New("configuration could not be loaded")
