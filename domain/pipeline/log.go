package pipeline

import (
	"github.com/kaspanet/ghostdagd/infrastructure/logger"
	"github.com/kaspanet/ghostdagd/util/panics"
)

var log = logger.RegisterSubSystem("PIPE")
var spawn = panics.GoroutineWrapperFunc(log)
