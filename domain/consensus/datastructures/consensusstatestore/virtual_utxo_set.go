package consensusstatestore

import (
	"github.com/kaspanet/ghostdagd/domain/consensus/database/serialization"
	"github.com/kaspanet/ghostdagd/domain/consensus/model"
	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ghostdagd/domain/consensus/utils/utxo"
	"github.com/pkg/errors"
)

// VirtualUTXOSetIterator iterates the stored virtual UTXO set with the
// staged virtual UTXO diff applied on top of it
func (css *consensusStateStore) VirtualUTXOSetIterator(dbContext model.DBReader, stagingArea *model.StagingArea) (
	externalapi.ReadOnlyUTXOSetIterator, error) {

	cursor, err := dbContext.Cursor(utxoSetBucket)
	if err != nil {
		return nil, err
	}

	return newVirtualUTXOSetIterator(cursor, css.stagingShard(stagingArea).virtualUTXODiff), nil
}

type virtualUTXOSetIterator struct {
	cursor model.DBCursor
	diff   externalapi.UTXODiff

	toAddIterator externalapi.ReadOnlyUTXOSetIterator
	inToAdd       bool
	isClosed      bool
}

func newVirtualUTXOSetIterator(cursor model.DBCursor, diff externalapi.UTXODiff) externalapi.ReadOnlyUTXOSetIterator {
	if diff == nil {
		diff = utxo.NewUTXODiff()
	}
	return &virtualUTXOSetIterator{
		cursor:        cursor,
		diff:          diff,
		toAddIterator: diff.ToAdd().Iterator(),
	}
}

func (it *virtualUTXOSetIterator) First() bool {
	if it.isClosed {
		panic("Tried using a closed virtualUTXOSetIterator")
	}
	it.inToAdd = false
	if it.cursor.First() && it.skipShadowed() {
		return true
	}
	it.inToAdd = true
	return it.toAddIterator.First()
}

func (it *virtualUTXOSetIterator) Next() bool {
	if it.isClosed {
		panic("Tried using a closed virtualUTXOSetIterator")
	}
	if it.inToAdd {
		return it.toAddIterator.Next()
	}
	if it.cursor.Next() && it.skipShadowed() {
		return true
	}
	return it.enterToAdd()
}

func (it *virtualUTXOSetIterator) enterToAdd() bool {
	it.inToAdd = true
	return it.toAddIterator.Next()
}

// skipShadowed advances the cursor past entries that the staged diff
// removes or replaces. It returns false once the cursor is exhausted.
func (it *virtualUTXOSetIterator) skipShadowed() bool {
	for {
		outpoint, err := it.currentCursorOutpoint()
		if err != nil {
			// An unreadable key is surfaced through Get
			return true
		}
		if !it.diff.ToRemove().Contains(outpoint) && !it.diff.ToAdd().Contains(outpoint) {
			return true
		}
		if !it.cursor.Next() {
			return false
		}
	}
}

func (it *virtualUTXOSetIterator) currentCursorOutpoint() (*externalapi.DomainOutpoint, error) {
	key, err := it.cursor.Key()
	if err != nil {
		return nil, err
	}
	return serialization.DeserializeOutpoint(key.Suffix())
}

func (it *virtualUTXOSetIterator) Get() (outpoint *externalapi.DomainOutpoint, utxoEntry externalapi.UTXOEntry, err error) {
	if it.isClosed {
		return nil, nil, errors.New("Tried using a closed virtualUTXOSetIterator")
	}
	if it.inToAdd {
		return it.toAddIterator.Get()
	}

	outpoint, err = it.currentCursorOutpoint()
	if err != nil {
		return nil, nil, err
	}
	serializedEntry, err := it.cursor.Value()
	if err != nil {
		return nil, nil, err
	}
	utxoEntry, err = utxo.DeserializeUTXOEntry(serializedEntry)
	if err != nil {
		return nil, nil, err
	}
	return outpoint, utxoEntry, nil
}

func (it *virtualUTXOSetIterator) Close() error {
	if it.isClosed {
		return errors.New("Tried using a closed virtualUTXOSetIterator")
	}
	it.isClosed = true
	err := it.toAddIterator.Close()
	if err != nil {
		return err
	}
	return it.cursor.Close()
}
