package utxo

import (
	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
	"github.com/pkg/errors"
)

type utxoOutpointEntryPair struct {
	outpoint externalapi.DomainOutpoint
	entry    externalapi.UTXOEntry
}

type utxoCollectionIterator struct {
	index    int
	pairs    []utxoOutpointEntryPair
	isClosed bool
}

func newUTXOCollectionIterator(collection utxoCollection) externalapi.ReadOnlyUTXOSetIterator {
	pairs := make([]utxoOutpointEntryPair, 0, len(collection))
	for outpoint, entry := range collection {
		pairs = append(pairs, utxoOutpointEntryPair{
			outpoint: outpoint,
			entry:    entry,
		})
	}
	return &utxoCollectionIterator{index: -1, pairs: pairs}
}

func (u *utxoCollectionIterator) First() bool {
	if u.isClosed {
		panic("Tried using a closed utxoCollectionIterator")
	}
	u.index = 0
	return len(u.pairs) > 0
}

func (u *utxoCollectionIterator) Next() bool {
	if u.isClosed {
		panic("Tried using a closed utxoCollectionIterator")
	}
	u.index++
	return u.index < len(u.pairs)
}

func (u *utxoCollectionIterator) Get() (outpoint *externalapi.DomainOutpoint, utxoEntry externalapi.UTXOEntry, err error) {
	if u.isClosed {
		return nil, nil, errors.New("Tried using a closed utxoCollectionIterator")
	}
	pair := u.pairs[u.index]
	return &pair.outpoint, pair.entry, nil
}

func (u *utxoCollectionIterator) Close() error {
	if u.isClosed {
		return errors.New("Tried using a closed utxoCollectionIterator")
	}
	u.isClosed = true
	u.pairs = nil
	return nil
}
