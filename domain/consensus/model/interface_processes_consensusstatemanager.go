package model

import "github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"

// ConsensusStateManager manages the node's consensus state
type ConsensusStateManager interface {
	AddBlock(stagingArea *StagingArea, blockHash *externalapi.DomainHash) (*externalapi.SelectedChainPath, error)
	CalculatePastUTXOAndMultiset(stagingArea *StagingArea, blockHash *externalapi.DomainHash) (
		externalapi.UTXODiff, Multiset, error)
	VirtualSelectedParent(stagingArea *StagingArea) (*externalapi.DomainHash, error)
}
