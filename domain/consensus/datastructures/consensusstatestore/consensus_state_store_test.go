package consensusstatestore

import (
	"testing"

	"github.com/kaspanet/ghostdagd/domain/consensus/database"
	"github.com/kaspanet/ghostdagd/domain/consensus/model"
	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ghostdagd/domain/consensus/utils/utxo"
	"github.com/kaspanet/ghostdagd/infrastructure/db/database/ldb"
)

func outpoint(b byte, index uint32) *externalapi.DomainOutpoint {
	return externalapi.NewDomainOutpoint(externalapi.NewDomainTransactionIDFromByteArray(&[externalapi.DomainHashSize]byte{b}), index)
}

func entry(amount uint64) externalapi.UTXOEntry {
	return utxo.NewUTXOEntry(amount, &externalapi.ScriptPublicKey{Script: []byte{1}, Version: 0}, false, 1)
}

func diffOf(t *testing.T, toAdd, toRemove map[externalapi.DomainOutpoint]externalapi.UTXOEntry) externalapi.UTXODiff {
	diff, err := utxo.NewUTXODiffFromCollections(utxo.NewUTXOCollection(toAdd), utxo.NewUTXOCollection(toRemove))
	if err != nil {
		t.Fatalf("NewUTXODiffFromCollections: %+v", err)
	}
	return diff
}

func commit(t *testing.T, dbManager model.DBManager, stagingArea *model.StagingArea) {
	dbTx, err := dbManager.Begin()
	if err != nil {
		t.Fatalf("Begin: %+v", err)
	}
	defer dbTx.RollbackUnlessClosed()

	err = stagingArea.Commit(dbTx)
	if err != nil {
		t.Fatalf("Commit: %+v", err)
	}
	err = dbTx.Commit()
	if err != nil {
		t.Fatalf("dbTx.Commit: %+v", err)
	}
}

func collect(t *testing.T, iterator externalapi.ReadOnlyUTXOSetIterator) map[externalapi.DomainOutpoint]uint64 {
	defer iterator.Close()
	result := make(map[externalapi.DomainOutpoint]uint64)
	for iterator.Next() {
		outpoint, entry, err := iterator.Get()
		if err != nil {
			t.Fatalf("Get: %+v", err)
		}
		result[*outpoint] = entry.Amount()
	}
	return result
}

func TestVirtualUTXOSet(t *testing.T) {
	db, err := ldb.NewLevelDB(t.TempDir(), 8)
	if err != nil {
		t.Fatalf("NewLevelDB: %+v", err)
	}
	defer db.Close()
	dbManager := database.New(db)

	store := New()

	first := diffOf(t, map[externalapi.DomainOutpoint]externalapi.UTXOEntry{
		*outpoint(1, 0): entry(10),
		*outpoint(2, 0): entry(20),
	}, nil)
	stagingArea := model.NewStagingArea()
	store.StageVirtualUTXODiff(stagingArea, first)
	store.StageTips(stagingArea, []*externalapi.DomainHash{externalapi.NewDomainHashFromByteArray(&[externalapi.DomainHashSize]byte{7})})
	commit(t, dbManager, stagingArea)

	// Staged changes are visible before they are committed
	second := diffOf(t, map[externalapi.DomainOutpoint]externalapi.UTXOEntry{
		*outpoint(3, 1): entry(30),
	}, map[externalapi.DomainOutpoint]externalapi.UTXOEntry{
		*outpoint(1, 0): entry(10),
	})
	stagingArea = model.NewStagingArea()
	store.StageVirtualUTXODiff(stagingArea, second)

	has, err := store.HasUTXOByOutpoint(dbManager, stagingArea, outpoint(1, 0))
	if err != nil {
		t.Fatalf("HasUTXOByOutpoint: %+v", err)
	}
	if has {
		t.Fatalf("staged removal is not visible")
	}
	_, err = store.UTXOByOutpoint(dbManager, stagingArea, outpoint(1, 0))
	if !database.IsNotFoundError(err) {
		t.Fatalf("expected a not-found error, got %+v", err)
	}

	staged := collect(t, mustIterator(t, store, dbManager, stagingArea))
	expected := map[externalapi.DomainOutpoint]uint64{
		*outpoint(2, 0): 20,
		*outpoint(3, 1): 30,
	}
	assertSet(t, staged, expected)

	// A discarded staging area leaves the stored set untouched
	stored := collect(t, mustIterator(t, store, dbManager, model.NewStagingArea()))
	assertSet(t, stored, map[externalapi.DomainOutpoint]uint64{
		*outpoint(1, 0): 10,
		*outpoint(2, 0): 20,
	})

	commit(t, dbManager, stagingArea)
	store.ClearCache()
	assertSet(t, collect(t, mustIterator(t, store, dbManager, model.NewStagingArea())), expected)

	tips, err := store.Tips(model.NewStagingArea(), dbManager)
	if err != nil {
		t.Fatalf("Tips: %+v", err)
	}
	if len(tips) != 1 || tips[0].ByteSlice()[0] != 7 {
		t.Fatalf("unexpected tips %v", tips)
	}
}

func mustIterator(t *testing.T, store model.ConsensusStateStore, dbContext model.DBReader,
	stagingArea *model.StagingArea) externalapi.ReadOnlyUTXOSetIterator {

	iterator, err := store.VirtualUTXOSetIterator(dbContext, stagingArea)
	if err != nil {
		t.Fatalf("VirtualUTXOSetIterator: %+v", err)
	}
	return iterator
}

func assertSet(t *testing.T, actual, expected map[externalapi.DomainOutpoint]uint64) {
	if len(actual) != len(expected) {
		t.Fatalf("expected %d UTXOs, got %d: %v", len(expected), len(actual), actual)
	}
	for outpoint, amount := range expected {
		if actual[outpoint] != amount {
			t.Fatalf("outpoint %s: expected amount %d, got %d", outpoint, amount, actual[outpoint])
		}
	}
}
