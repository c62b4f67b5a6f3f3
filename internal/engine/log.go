package engine

import (
	"io"
	"log"
)

// discardLogger returns a *log.Logger that writes nowhere, used whenever a
// caller does not inject one. Grounded on its predecessor's own stdlib
// log/fmt-based logging idiom ( no third-party structured
// logger is directly wired to the PDF domain anywhere in the corpus —
// logrus/zerolog only show up as transitive deps of unrelated features).
func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}
