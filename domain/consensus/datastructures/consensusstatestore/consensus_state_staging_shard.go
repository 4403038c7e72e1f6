package consensusstatestore

import (
	"github.com/kaspanet/ghostdagd/domain/consensus/model"
	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
)

type consensusStateStagingShard struct {
	store           *consensusStateStore
	tipsStaging     []*externalapi.DomainHash
	virtualUTXODiff externalapi.UTXODiff
}

func (css *consensusStateStore) stagingShard(stagingArea *model.StagingArea) *consensusStateStagingShard {
	return stagingArea.GetOrCreateShard(model.StagingShardIDConsensusState, func() model.StagingShard {
		return &consensusStateStagingShard{
			store: css,
		}
	}).(*consensusStateStagingShard)
}

func (csss *consensusStateStagingShard) Commit(dbTx model.DBTransaction) error {
	err := csss.commitTips(dbTx)
	if err != nil {
		return err
	}

	err = csss.commitVirtualUTXODiff(dbTx)
	if err != nil {
		return err
	}

	return nil
}

func (csss *consensusStateStagingShard) isStaged() bool {
	return csss.tipsStaging != nil || csss.virtualUTXODiff != nil
}
