package agent

import "errors"

// ErrGenerationUnavailable indicates the language model could not
// produce a response. Callers must surface it rather than fabricate
// an answer.
var ErrGenerationUnavailable = errors.New("generation unavailable")
