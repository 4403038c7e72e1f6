package blockheaderstore

import (
	"github.com/kaspanet/ghostdagd/domain/consensus/database/serialization"
	"github.com/kaspanet/ghostdagd/domain/consensus/model"
	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
)

type blockHeaderStagingShard struct {
	store *blockHeaderStore
	toAdd map[externalapi.DomainHash]*externalapi.DomainBlockHeader
}

func (bhs *blockHeaderStore) stagingShard(stagingArea *model.StagingArea) *blockHeaderStagingShard {
	return stagingArea.GetOrCreateShard(model.StagingShardIDBlockHeader, func() model.StagingShard {
		return &blockHeaderStagingShard{
			store: bhs,
			toAdd: make(map[externalapi.DomainHash]*externalapi.DomainBlockHeader),
		}
	}).(*blockHeaderStagingShard)
}

func (bhss *blockHeaderStagingShard) Commit(dbTx model.DBTransaction) error {
	for hash, header := range bhss.toAdd {
		hash := hash
		err := dbTx.Put(bhss.store.hashAsKey(&hash), serialization.SerializeBlockHeader(header))
		if err != nil {
			return err
		}
		bhss.store.cache.Add(&hash, header)
	}

	err := bhss.commitCount(dbTx)
	if err != nil {
		return err
	}

	return nil
}

func (bhss *blockHeaderStagingShard) commitCount(dbTx model.DBTransaction) error {
	count := bhss.store.count(bhss)
	err := dbTx.Put(countKey, serialization.SerializeCount(count))
	if err != nil {
		return err
	}
	bhss.store.countCached = count
	return nil
}

func (bhss *blockHeaderStagingShard) isStaged() bool {
	return len(bhss.toAdd) != 0
}
