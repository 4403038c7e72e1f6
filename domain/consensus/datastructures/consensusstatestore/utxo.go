package consensusstatestore

import (
	"github.com/kaspanet/ghostdagd/domain/consensus/database"
	"github.com/kaspanet/ghostdagd/domain/consensus/database/serialization"
	"github.com/kaspanet/ghostdagd/domain/consensus/model"
	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ghostdagd/domain/consensus/utils/utxo"
	"github.com/pkg/errors"
)

var utxoSetBucket = database.MakeBucket([]byte("virtual-utxo-set"))

func utxoKey(outpoint *externalapi.DomainOutpoint) model.DBKey {
	return utxoSetBucket.Key(serialization.SerializeOutpoint(outpoint))
}

// StageVirtualUTXODiff stages a diff that transforms the stored virtual
// UTXO set into the new one. Staging a second diff in the same staging
// area composes it on top of the first.
func (css *consensusStateStore) StageVirtualUTXODiff(stagingArea *model.StagingArea, virtualUTXODiff externalapi.UTXODiff) {
	stagingShard := css.stagingShard(stagingArea)

	if stagingShard.virtualUTXODiff == nil {
		stagingShard.virtualUTXODiff = virtualUTXODiff
		return
	}

	composed, err := stagingShard.virtualUTXODiff.WithDiff(virtualUTXODiff)
	if err != nil {
		panic(errors.Wrap(err, "staged virtual UTXO diffs cannot be composed"))
	}
	stagingShard.virtualUTXODiff = composed
}

func (csss *consensusStateStagingShard) commitVirtualUTXODiff(dbTx model.DBTransaction) error {
	if csss.virtualUTXODiff == nil {
		return nil
	}

	toRemoveIterator := csss.virtualUTXODiff.ToRemove().Iterator()
	defer toRemoveIterator.Close()
	for toRemoveIterator.Next() {
		toRemoveOutpoint, _, err := toRemoveIterator.Get()
		if err != nil {
			return err
		}
		err = dbTx.Delete(utxoKey(toRemoveOutpoint))
		if err != nil {
			return err
		}
	}

	toAddIterator := csss.virtualUTXODiff.ToAdd().Iterator()
	defer toAddIterator.Close()
	for toAddIterator.Next() {
		toAddOutpoint, toAddEntry, err := toAddIterator.Get()
		if err != nil {
			return err
		}
		err = dbTx.Put(utxoKey(toAddOutpoint), utxo.SerializeUTXOEntry(toAddEntry))
		if err != nil {
			return err
		}
	}

	return nil
}

func (css *consensusStateStore) UTXOByOutpoint(dbContext model.DBReader, stagingArea *model.StagingArea,
	outpoint *externalapi.DomainOutpoint) (externalapi.UTXOEntry, error) {

	stagingShard := css.stagingShard(stagingArea)

	if stagingShard.virtualUTXODiff != nil {
		if utxoEntry, ok := stagingShard.virtualUTXODiff.ToAdd().Get(outpoint); ok {
			return utxoEntry, nil
		}
		if stagingShard.virtualUTXODiff.ToRemove().Contains(outpoint) {
			return nil, errors.Wrapf(database.ErrNotFound, "outpoint %s was removed from the virtual UTXO set", outpoint)
		}
	}

	serializedUTXOEntry, err := dbContext.Get(utxoKey(outpoint))
	if err != nil {
		return nil, err
	}

	return utxo.DeserializeUTXOEntry(serializedUTXOEntry)
}

func (css *consensusStateStore) HasUTXOByOutpoint(dbContext model.DBReader, stagingArea *model.StagingArea,
	outpoint *externalapi.DomainOutpoint) (bool, error) {

	stagingShard := css.stagingShard(stagingArea)

	if stagingShard.virtualUTXODiff != nil {
		if stagingShard.virtualUTXODiff.ToAdd().Contains(outpoint) {
			return true, nil
		}
		if stagingShard.virtualUTXODiff.ToRemove().Contains(outpoint) {
			return false, nil
		}
	}

	return dbContext.Has(utxoKey(outpoint))
}
