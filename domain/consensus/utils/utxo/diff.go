package utxo

import (
	"fmt"

	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
)

type immutableUTXODiff struct {
	mutableUTXODiff *mutableUTXODiff
}

// NewUTXODiff creates a new, empty UTXODiff
// to be used as the diff between two UTXO sets
func NewUTXODiff() externalapi.UTXODiff {
	return newMutableUTXODiff().ToImmutable()
}

// NewUTXODiffFromCollections returns a new UTXODiff with the given toAdd and toRemove collections
func NewUTXODiffFromCollections(toAdd, toRemove externalapi.UTXOCollection) (externalapi.UTXODiff, error) {
	mutableDiff, err := newMutableUTXODiffFromCollections(toAdd, toRemove)
	if err != nil {
		return nil, err
	}
	return mutableDiff.ToImmutable(), nil
}

func (iud *immutableUTXODiff) ToAdd() externalapi.UTXOCollection {
	return iud.mutableUTXODiff.ToAdd()
}

func (iud *immutableUTXODiff) ToRemove() externalapi.UTXOCollection {
	return iud.mutableUTXODiff.ToRemove()
}

func (iud *immutableUTXODiff) WithDiff(other externalapi.UTXODiff) (externalapi.UTXODiff, error) {
	return iud.mutableUTXODiff.WithDiff(other)
}

func (iud *immutableUTXODiff) DiffFrom(other externalapi.UTXODiff) (externalapi.UTXODiff, error) {
	return iud.mutableUTXODiff.DiffFrom(other)
}

func (iud *immutableUTXODiff) Reversed() externalapi.UTXODiff {
	return &immutableUTXODiff{
		mutableUTXODiff: &mutableUTXODiff{
			toAdd:    iud.mutableUTXODiff.toRemove,
			toRemove: iud.mutableUTXODiff.toAdd,
		},
	}
}

func (iud *immutableUTXODiff) CloneMutable() externalapi.MutableUTXODiff {
	return iud.mutableUTXODiff.clone()
}

func (iud *immutableUTXODiff) String() string {
	return iud.mutableUTXODiff.String()
}

type mutableUTXODiff struct {
	toAdd    utxoCollection
	toRemove utxoCollection
}

// NewMutableUTXODiff creates an empty mutable UTXO-Diff
func NewMutableUTXODiff() externalapi.MutableUTXODiff {
	return newMutableUTXODiff()
}

func newMutableUTXODiff() *mutableUTXODiff {
	return &mutableUTXODiff{
		toAdd:    utxoCollection{},
		toRemove: utxoCollection{},
	}
}

func newMutableUTXODiffFromCollections(toAdd, toRemove externalapi.UTXOCollection) (*mutableUTXODiff, error) {
	toAddAsUTXOCollection, ok := toAdd.(utxoCollection)
	if !ok {
		return nil, fmt.Errorf("toAdd is not of type utxoCollection")
	}
	toRemoveAsUTXOCollection, ok := toRemove.(utxoCollection)
	if !ok {
		return nil, fmt.Errorf("toRemove is not of type utxoCollection")
	}
	return &mutableUTXODiff{
		toAdd:    toAddAsUTXOCollection.clone(),
		toRemove: toRemoveAsUTXOCollection.clone(),
	}, nil
}

func (mud *mutableUTXODiff) ToImmutable() externalapi.UTXODiff {
	return &immutableUTXODiff{
		mutableUTXODiff: mud.clone(),
	}
}

func (mud *mutableUTXODiff) WithDiff(other externalapi.UTXODiff) (externalapi.UTXODiff, error) {
	o, err := asMutableUTXODiff(other)
	if err != nil {
		return nil, err
	}

	result, err := withDiff(mud, o)
	if err != nil {
		return nil, err
	}

	return result.ToImmutable(), nil
}

func (mud *mutableUTXODiff) WithDiffInPlace(other externalapi.UTXODiff) error {
	o, err := asMutableUTXODiff(other)
	if err != nil {
		return err
	}

	return withDiffInPlace(mud, o)
}

func (mud *mutableUTXODiff) DiffFrom(other externalapi.UTXODiff) (externalapi.UTXODiff, error) {
	o, err := asMutableUTXODiff(other)
	if err != nil {
		return nil, err
	}

	result, err := diffFrom(mud, o)
	if err != nil {
		return nil, err
	}

	return result.ToImmutable(), nil
}

func (mud *mutableUTXODiff) ToAdd() externalapi.UTXOCollection {
	return mud.toAdd
}

func (mud *mutableUTXODiff) ToRemove() externalapi.UTXOCollection {
	return mud.toRemove
}

func (mud *mutableUTXODiff) AddEntry(outpoint *externalapi.DomainOutpoint, entry externalapi.UTXOEntry) error {
	return mud.addEntry(outpoint, entry)
}

func (mud *mutableUTXODiff) RemoveEntry(outpoint *externalapi.DomainOutpoint, entry externalapi.UTXOEntry) error {
	return mud.removeEntry(outpoint, entry)
}

func (mud *mutableUTXODiff) clone() *mutableUTXODiff {
	if mud == nil {
		return nil
	}

	return &mutableUTXODiff{
		toAdd:    mud.toAdd.clone(),
		toRemove: mud.toRemove.clone(),
	}
}

func (mud *mutableUTXODiff) String() string {
	return fmt.Sprintf("toAdd: %s; toRemove: %s", mud.toAdd, mud.toRemove)
}

func asMutableUTXODiff(diff externalapi.UTXODiff) (*mutableUTXODiff, error) {
	switch d := diff.(type) {
	case *immutableUTXODiff:
		return d.mutableUTXODiff, nil
	default:
		return nil, fmt.Errorf("diff of type %T is not supported", diff)
	}
}
