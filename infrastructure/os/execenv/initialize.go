package execenv

import (
	"runtime"
	"runtime/debug"
)

// gcPercent keeps the heap close to the live set while large DAGs are
// being processed
const gcPercent = 20

// Initialize prepares the runtime for a long block processing run
func Initialize() {
	runtime.GOMAXPROCS(runtime.NumCPU())
	debug.SetGCPercent(gcPercent)
}
