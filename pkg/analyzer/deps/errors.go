package deps

import "errors"

// Per-file skip reasons. These surface as warnings on the analysis, never
// as run failures.
var (
	errFileTooLarge = errors.New("file exceeds size ceiling, skipped")
	errBinaryFile   = errors.New("binary or undecodable file, skipped")
)
