package simcore

import (
	"log"
	"os"
)

// simlog is the module's only logging surface; no code in the package
// currently writes to it. No example
// in the retrieved corpus pulls in a structured-logging library, so this
// stays on the standard library (see DESIGN.md).
var simlog = log.New(os.Stderr, "simcore: ", log.LstdFlags)
