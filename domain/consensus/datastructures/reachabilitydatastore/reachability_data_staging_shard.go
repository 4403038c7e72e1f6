package reachabilitydatastore

import (
	"github.com/kaspanet/ghostdagd/domain/consensus/database/serialization"
	"github.com/kaspanet/ghostdagd/domain/consensus/model"
	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
)

type reachabilityDataStagingShard struct {
	store                   *reachabilityDataStore
	reachabilityData        map[externalapi.DomainHash]*model.ReachabilityData
	reachabilityReindexRoot *externalapi.DomainHash
}

func (rds *reachabilityDataStore) stagingShard(stagingArea *model.StagingArea) *reachabilityDataStagingShard {
	return stagingArea.GetOrCreateShard(model.StagingShardIDReachabilityData, func() model.StagingShard {
		return &reachabilityDataStagingShard{
			store:                   rds,
			reachabilityData:        make(map[externalapi.DomainHash]*model.ReachabilityData),
			reachabilityReindexRoot: nil,
		}
	}).(*reachabilityDataStagingShard)
}

func (rdss *reachabilityDataStagingShard) Commit(dbTx model.DBTransaction) error {
	if rdss.reachabilityReindexRoot != nil {
		err := dbTx.Put(reachabilityReindexRootKey, serialization.SerializeHash(rdss.reachabilityReindexRoot))
		if err != nil {
			return err
		}
		rdss.store.reachabilityReindexRootCache = rdss.reachabilityReindexRoot
	}
	for hash, reachabilityData := range rdss.reachabilityData {
		hash := hash
		err := dbTx.Put(rdss.store.reachabilityDataBlockHashAsKey(&hash),
			serialization.SerializeReachabilityData(reachabilityData))
		if err != nil {
			return err
		}
		rdss.store.reachabilityDataCache.Add(&hash, reachabilityData)
	}

	return nil
}

func (rdss *reachabilityDataStagingShard) isStaged() bool {
	return len(rdss.reachabilityData) != 0 || rdss.reachabilityReindexRoot != nil
}
