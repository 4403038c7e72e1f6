package utxo

import (
	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
	"github.com/pkg/errors"
)

// A diff is applied by first removing every entry in toRemove and then
// adding every entry in toAdd. An outpoint can appear on both sides
// only with two different entries, meaning the entry was replaced.
//
// The algebra below composes diffs by replaying the second diff on top of
// the first one entry by entry, so that applying the result to a set is
// always the same as applying the two diffs one after the other.

// removeEntry records that outpoint, currently holding entry, is spent
func (mud *mutableUTXODiff) removeEntry(outpoint *externalapi.DomainOutpoint, entry externalapi.UTXOEntry) error {
	if existing, ok := mud.toAdd.Get(outpoint); ok {
		if !existing.Equal(entry) {
			return errors.Errorf("removeEntry: outpoint %s is in toAdd with a different entry", outpoint)
		}
		mud.toAdd.remove(outpoint)
		return nil
	}

	if mud.toRemove.Contains(outpoint) {
		return errors.Errorf("removeEntry: outpoint %s is already in toRemove", outpoint)
	}
	mud.toRemove.add(outpoint, entry)
	return nil
}

// addEntry records that outpoint is created with entry
func (mud *mutableUTXODiff) addEntry(outpoint *externalapi.DomainOutpoint, entry externalapi.UTXOEntry) error {
	if mud.toAdd.Contains(outpoint) {
		return errors.Errorf("addEntry: outpoint %s is already in toAdd", outpoint)
	}

	if mud.toRemove.containsWithEntry(outpoint, entry) {
		mud.toRemove.remove(outpoint)
		return nil
	}
	mud.toAdd.add(outpoint, entry)
	return nil
}

// withDiffInPlace applies other on top of this, so that this becomes the
// diff that results from applying this and then other to the same base
//
// The rules this follows are represented by the following table, where the
// entries of the two diffs are assumed to be equal wherever they meet:
//
//          |           | this      |           |
// ---------+-----------+-----------+-----------+-----------
//          |           | toAdd     | toRemove  | None
// ---------+-----------+-----------+-----------+-----------
// other    | toAdd     | X         | -         | toAdd
// ---------+-----------+-----------+-----------+-----------
//          | toRemove  | -         | X         | toRemove
// ---------+-----------+-----------+-----------+-----------
//          | None      | toAdd     | toRemove  | -
//
// Key:
// -		Don't add anything to the result
// X		Return an error
// toAdd	Add the UTXO into the toAdd collection of the result
// toRemove	Add the UTXO into the toRemove collection of the result
func withDiffInPlace(this *mutableUTXODiff, other *mutableUTXODiff) error {
	for outpoint, entry := range other.toRemove {
		outpoint := outpoint
		err := this.removeEntry(&outpoint, entry)
		if err != nil {
			return errors.Wrap(err, "withDiffInPlace")
		}
	}

	for outpoint, entry := range other.toAdd {
		outpoint := outpoint
		err := this.addEntry(&outpoint, entry)
		if err != nil {
			return errors.Wrap(err, "withDiffInPlace")
		}
	}

	return nil
}

// withDiff returns a new diff that is the result of applying this and then other
func withDiff(this *mutableUTXODiff, other *mutableUTXODiff) (*mutableUTXODiff, error) {
	result := this.clone()
	err := withDiffInPlace(result, other)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// diffFrom returns a new diff that transforms the set this diff leads to
// into the set other leads to. Both diffs must be from the same base,
// which the algebra verifies: an outpoint added by one diff and removed
// by the other results in an error.
func diffFrom(this *mutableUTXODiff, other *mutableUTXODiff) (*mutableUTXODiff, error) {
	reversed := &mutableUTXODiff{
		toAdd:    this.toRemove.clone(),
		toRemove: this.toAdd.clone(),
	}
	err := withDiffInPlace(reversed, other)
	if err != nil {
		return nil, errors.Wrap(err, "diffFrom: the diffs are not from the same base")
	}
	return reversed, nil
}
