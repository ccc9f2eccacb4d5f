package forkchoice

import "errors"

// ErrNotNotarized is returned when a chain contains a block that did not
// reach the notarization threshold.
var ErrNotNotarized = errors.New("chain contains a block that is not notarized")
