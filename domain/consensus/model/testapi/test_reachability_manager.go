package testapi

import (
	"github.com/kaspanet/ghostdagd/domain/consensus/model"
	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
)

// TestReachabilityManager adds to the main ReachabilityManager methods required by tests
type TestReachabilityManager interface {
	model.ReachabilityManager
	ReachabilityReindexSlack() uint64
	SetReachabilityReindexSlack(reindexSlack uint64)
	SetReachabilityReindexWindow(reindexWindow uint64)
	TreeString(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash) (string, error)
}
