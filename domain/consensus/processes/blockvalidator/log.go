package blockvalidator

import (
	"github.com/kaspanet/ghostdagd/infrastructure/logger"
)

var log = logger.RegisterSubSystem("BDAG")
