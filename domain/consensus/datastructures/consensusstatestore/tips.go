package consensusstatestore

import (
	"github.com/kaspanet/ghostdagd/domain/consensus/database"
	"github.com/kaspanet/ghostdagd/domain/consensus/database/serialization"
	"github.com/kaspanet/ghostdagd/domain/consensus/model"
	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
)

var tipsKey = database.MakeBucket(nil).Key([]byte("tips"))

func (css *consensusStateStore) Tips(stagingArea *model.StagingArea, dbContext model.DBReader) ([]*externalapi.DomainHash, error) {
	stagingShard := css.stagingShard(stagingArea)

	if stagingShard.tipsStaging != nil {
		return externalapi.CloneHashes(stagingShard.tipsStaging), nil
	}

	if css.tipsCache != nil {
		return externalapi.CloneHashes(css.tipsCache), nil
	}

	tipsBytes, err := dbContext.Get(tipsKey)
	if err != nil {
		return nil, err
	}

	tips, err := serialization.DeserializeHashes(tipsBytes)
	if err != nil {
		return nil, err
	}
	css.tipsCache = tips
	return externalapi.CloneHashes(tips), nil
}

func (css *consensusStateStore) StageTips(stagingArea *model.StagingArea, tipHashes []*externalapi.DomainHash) {
	stagingShard := css.stagingShard(stagingArea)

	stagingShard.tipsStaging = externalapi.CloneHashes(tipHashes)
}

func (csss *consensusStateStagingShard) commitTips(dbTx model.DBTransaction) error {
	if csss.tipsStaging == nil {
		return nil
	}

	err := dbTx.Put(tipsKey, serialization.SerializeHashes(csss.tipsStaging))
	if err != nil {
		return err
	}
	csss.store.tipsCache = csss.tipsStaging

	return nil
}
