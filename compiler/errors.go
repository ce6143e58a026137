package compiler

import "errors"

// ErrCompile is the failure signal returned when compilation records
// diagnostics. The diagnostics themselves live on the shared reporter;
// the compiler's state stays inspectable after a failure so callers can
// still disassemble the partial chunk.
var ErrCompile = errors.New("compilation failed")
