package utxo

import (
	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ghostdagd/domain/consensus/ruleerrors"
	"github.com/pkg/errors"
)

// ApplyDiffToCollection applies diff on top of the given UTXO collection and
// returns the result as a new collection. The given collection is not modified.
//
// It fails with ErrInvalidUTXOReference if the diff spends an outpoint that is
// not in the collection, and with ErrDoubleSpend if it creates an outpoint that
// already exists.
func ApplyDiffToCollection(collection externalapi.UTXOCollection,
	diff externalapi.UTXODiff) (externalapi.UTXOCollection, error) {

	base, ok := collection.(utxoCollection)
	if !ok {
		return nil, errors.Errorf("collection of type %T is not supported", collection)
	}
	d, err := asMutableUTXODiff(diff)
	if err != nil {
		return nil, err
	}

	result := base.clone()
	for outpoint, entry := range d.toRemove {
		outpoint := outpoint
		if !result.containsWithEntry(&outpoint, entry) {
			return nil, errors.Wrapf(ruleerrors.ErrInvalidUTXOReference,
				"outpoint %s is spent but does not exist", outpoint)
		}
		result.remove(&outpoint)
	}
	for outpoint, entry := range d.toAdd {
		outpoint := outpoint
		if result.Contains(&outpoint) {
			return nil, errors.Wrapf(ruleerrors.ErrDoubleSpend,
				"outpoint %s is created but already exists", outpoint)
		}
		result.add(&outpoint, entry)
	}
	return result, nil
}

// CollectionsEqual returns whether both collections hold exactly the same
// outpoints with equal entries
func CollectionsEqual(a, b externalapi.UTXOCollection) bool {
	if a.Len() != b.Len() {
		return false
	}
	iterator := a.Iterator()
	defer iterator.Close()
	for ok := iterator.First(); ok; ok = iterator.Next() {
		outpoint, entry, err := iterator.Get()
		if err != nil {
			return false
		}
		otherEntry, exists := b.Get(outpoint)
		if !exists || !otherEntry.Equal(entry) {
			return false
		}
	}
	return true
}
