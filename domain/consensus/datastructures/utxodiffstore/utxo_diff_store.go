package utxodiffstore

import (
	"github.com/kaspanet/ghostdagd/domain/consensus/database"
	"github.com/kaspanet/ghostdagd/domain/consensus/database/serialization"
	"github.com/kaspanet/ghostdagd/domain/consensus/model"
	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ghostdagd/domain/consensus/utils/lrucache"
	"github.com/pkg/errors"
)

var bucket = database.MakeBucket([]byte("utxo-diffs"))

// utxoDiffStore represents a store of UTXODiffs
type utxoDiffStore struct {
	cache *lrucache.LRUCache
}

// New instantiates a new UTXODiffStore
func New(cacheSize int) model.UTXODiffStore {
	return &utxoDiffStore{
		cache: lrucache.New(cacheSize),
	}
}

// Stage stages the given utxoDiff for the given blockHash
func (uds *utxoDiffStore) Stage(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash, utxoDiff externalapi.UTXODiff) {
	stagingShard := uds.stagingShard(stagingArea)

	delete(stagingShard.toDelete, *blockHash)
	stagingShard.toAdd[*blockHash] = utxoDiff
}

func (uds *utxoDiffStore) IsStaged(stagingArea *model.StagingArea) bool {
	return uds.stagingShard(stagingArea).isStaged()
}

// UTXODiff gets the utxoDiff associated with the given blockHash
func (uds *utxoDiffStore) UTXODiff(dbContext model.DBReader, stagingArea *model.StagingArea,
	blockHash *externalapi.DomainHash) (externalapi.UTXODiff, error) {

	stagingShard := uds.stagingShard(stagingArea)

	if _, ok := stagingShard.toDelete[*blockHash]; ok {
		return nil, errors.Wrapf(database.ErrNotFound, "utxo diff of %s is staged for deletion", blockHash)
	}

	if utxoDiff, ok := stagingShard.toAdd[*blockHash]; ok {
		return utxoDiff, nil
	}

	if utxoDiff, ok := uds.cache.Get(blockHash); ok {
		return utxoDiff.(externalapi.UTXODiff), nil
	}

	utxoDiffBytes, err := dbContext.Get(uds.hashAsKey(blockHash))
	if err != nil {
		return nil, err
	}

	utxoDiff, err := serialization.DeserializeUTXODiff(utxoDiffBytes)
	if err != nil {
		return nil, err
	}
	uds.cache.Add(blockHash, utxoDiff)
	return utxoDiff, nil
}

// HasUTXODiff returns true if a utxoDiff is stored for the given blockHash
func (uds *utxoDiffStore) HasUTXODiff(dbContext model.DBReader, stagingArea *model.StagingArea,
	blockHash *externalapi.DomainHash) (bool, error) {

	stagingShard := uds.stagingShard(stagingArea)

	if _, ok := stagingShard.toDelete[*blockHash]; ok {
		return false, nil
	}

	if _, ok := stagingShard.toAdd[*blockHash]; ok {
		return true, nil
	}

	if uds.cache.Has(blockHash) {
		return true, nil
	}

	return dbContext.Has(uds.hashAsKey(blockHash))
}

// Delete deletes the utxoDiff associated with the given blockHash
func (uds *utxoDiffStore) Delete(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash) {
	stagingShard := uds.stagingShard(stagingArea)

	if _, ok := stagingShard.toAdd[*blockHash]; ok {
		delete(stagingShard.toAdd, *blockHash)
		return
	}
	stagingShard.toDelete[*blockHash] = struct{}{}
}

func (uds *utxoDiffStore) ClearCache() {
	uds.cache.Clear()
}

func (uds *utxoDiffStore) hashAsKey(hash *externalapi.DomainHash) model.DBKey {
	return bucket.Key(serialization.DomainHashToDBKeySuffix(hash))
}
