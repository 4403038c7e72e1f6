package consensus

import (
	"github.com/kaspanet/ghostdagd/infrastructure/logger"
)

var log = logger.RegisterSubSystem("CNSS")
