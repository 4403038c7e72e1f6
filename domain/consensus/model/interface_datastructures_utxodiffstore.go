package model

import "github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"

// UTXODiffStore represents a store of UTXODiffs.
// The diff stored for a block transforms the UTXO state of its
// selected parent into the UTXO state of the block itself.
type UTXODiffStore interface {
	Store
	Stage(stagingArea *StagingArea, blockHash *externalapi.DomainHash, utxoDiff externalapi.UTXODiff)
	IsStaged(stagingArea *StagingArea) bool
	UTXODiff(dbContext DBReader, stagingArea *StagingArea, blockHash *externalapi.DomainHash) (externalapi.UTXODiff, error)
	HasUTXODiff(dbContext DBReader, stagingArea *StagingArea, blockHash *externalapi.DomainHash) (bool, error)
	Delete(stagingArea *StagingArea, blockHash *externalapi.DomainHash)
}
