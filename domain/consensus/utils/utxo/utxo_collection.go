package utxo

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
)

type utxoCollection map[externalapi.DomainOutpoint]externalapi.UTXOEntry

// NewUTXOCollection creates a UTXO-Collection from the given map from outpoint to UTXOEntry
func NewUTXOCollection(utxoMap map[externalapi.DomainOutpoint]externalapi.UTXOEntry) externalapi.UTXOCollection {
	return utxoCollection(utxoMap)
}

// Get returns the UTXOEntry represented by provided outpoint,
// and a boolean value indicating if said UTXOEntry is in the set or not
func (uc utxoCollection) Get(outpoint *externalapi.DomainOutpoint) (externalapi.UTXOEntry, bool) {
	entry, ok := uc[*outpoint]
	return entry, ok
}

// Contains returns a boolean value indicating whether a UTXO entry is in the set
func (uc utxoCollection) Contains(outpoint *externalapi.DomainOutpoint) bool {
	_, ok := uc[*outpoint]
	return ok
}

func (uc utxoCollection) Len() int {
	return len(uc)
}

func (uc utxoCollection) Iterator() externalapi.ReadOnlyUTXOSetIterator {
	return newUTXOCollectionIterator(uc)
}

func (uc utxoCollection) add(outpoint *externalapi.DomainOutpoint, entry externalapi.UTXOEntry) {
	uc[*outpoint] = entry
}

func (uc utxoCollection) remove(outpoint *externalapi.DomainOutpoint) {
	delete(uc, *outpoint)
}

// containsWithEntry returns whether the collection holds the outpoint
// with an entry equal to the given one
func (uc utxoCollection) containsWithEntry(outpoint *externalapi.DomainOutpoint, entry externalapi.UTXOEntry) bool {
	existing, ok := uc[*outpoint]
	return ok && existing.Equal(entry)
}

func (uc utxoCollection) clone() utxoCollection {
	clone := make(utxoCollection, len(uc))
	for outpoint, entry := range uc {
		clone[outpoint] = entry
	}
	return clone
}

func (uc utxoCollection) String() string {
	utxoStrings := make([]string, 0, len(uc))
	for outpoint, entry := range uc {
		utxoStrings = append(utxoStrings, fmt.Sprintf("(%s, %d) => %d, blueScore: %d",
			outpoint.TransactionID, outpoint.Index, entry.Amount(), entry.BlockBlueScore()))
	}

	// Sort strings for determinism.
	sort.Strings(utxoStrings)

	return fmt.Sprintf("[ %s ]", strings.Join(utxoStrings, ", "))
}
