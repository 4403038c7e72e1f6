package blockstore

import (
	"github.com/kaspanet/ghostdagd/domain/consensus/database/serialization"
	"github.com/kaspanet/ghostdagd/domain/consensus/model"
	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
)

type blockStagingShard struct {
	store *blockStore
	toAdd map[externalapi.DomainHash]*externalapi.DomainBlock
}

func (bs *blockStore) stagingShard(stagingArea *model.StagingArea) *blockStagingShard {
	return stagingArea.GetOrCreateShard(model.StagingShardIDBlock, func() model.StagingShard {
		return &blockStagingShard{
			store: bs,
			toAdd: make(map[externalapi.DomainHash]*externalapi.DomainBlock),
		}
	}).(*blockStagingShard)
}

func (bss *blockStagingShard) Commit(dbTx model.DBTransaction) error {
	for hash, block := range bss.toAdd {
		hash := hash
		err := dbTx.Put(bss.store.hashAsKey(&hash), serialization.SerializeBlock(block))
		if err != nil {
			return err
		}
		bss.store.cache.Add(&hash, block)
	}

	count := bss.store.count(bss)
	err := dbTx.Put(countKey, serialization.SerializeCount(count))
	if err != nil {
		return err
	}
	bss.store.countCached = count

	return nil
}

func (bss *blockStagingShard) isStaged() bool {
	return len(bss.toAdd) != 0
}
