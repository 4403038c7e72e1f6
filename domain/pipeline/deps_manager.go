package pipeline

import (
	"sort"
	"sync"

	"github.com/hashicorp/golang-lru/simplelru"
	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
	"github.com/pkg/errors"
)

// Orphan is a block that waits for some of its parents to be accepted
type Orphan struct {
	Block     *externalapi.DomainBlock
	BlockHash *externalapi.DomainHash

	missingParents map[externalapi.DomainHash]struct{}
	sequence       uint64
}

// DepsManager holds blocks with missing parents until those parents are
// accepted. It keeps at most maxOrphans blocks and evicts the least
// recently added one when full.
type DepsManager struct {
	mutex sync.Mutex

	orphans *simplelru.LRU

	// dependents maps a missing parent to the orphans waiting for it
	dependents map[externalapi.DomainHash]map[externalapi.DomainHash]*Orphan

	nextSequence uint64
	evicted      []*Orphan
}

// NewDepsManager returns a DepsManager that holds up to maxOrphans blocks
func NewDepsManager(maxOrphans int) (*DepsManager, error) {
	dm := &DepsManager{
		dependents: make(map[externalapi.DomainHash]map[externalapi.DomainHash]*Orphan),
	}
	orphans, err := simplelru.NewLRU(maxOrphans, dm.onRemove)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot create an orphan pool of size %d", maxOrphans)
	}
	dm.orphans = orphans
	return dm, nil
}

// AddOrphan stores block until every one of missingParents is released
// through ReleaseDependents. It returns the orphans that were evicted to
// make room for it.
func (dm *DepsManager) AddOrphan(block *externalapi.DomainBlock, blockHash *externalapi.DomainHash,
	missingParents []*externalapi.DomainHash) []*Orphan {

	dm.mutex.Lock()
	defer dm.mutex.Unlock()

	if dm.orphans.Contains(*blockHash) {
		// Re-adding refreshes the orphan's position in the pool
		dm.orphans.Get(*blockHash)
		return nil
	}

	orphan := &Orphan{
		Block:          block,
		BlockHash:      blockHash,
		missingParents: make(map[externalapi.DomainHash]struct{}, len(missingParents)),
		sequence:       dm.nextSequence,
	}
	dm.nextSequence++

	for _, missingParent := range missingParents {
		orphan.missingParents[*missingParent] = struct{}{}
		waiting, ok := dm.dependents[*missingParent]
		if !ok {
			waiting = make(map[externalapi.DomainHash]*Orphan)
			dm.dependents[*missingParent] = waiting
		}
		waiting[*blockHash] = orphan
	}

	dm.evicted = nil
	dm.orphans.Add(*blockHash, orphan)
	evicted := dm.evicted
	dm.evicted = nil

	for _, evictedOrphan := range evicted {
		log.Debugf("Orphan pool is full. Evicted %s", evictedOrphan.BlockHash)
	}
	return evicted
}

// onRemove is called by the LRU, under dm.mutex, whenever an orphan leaves
// the pool. Released orphans have no missing parents left by then.
func (dm *DepsManager) onRemove(key interface{}, value interface{}) {
	orphan := value.(*Orphan)
	if len(orphan.missingParents) == 0 {
		return
	}

	for missingParent := range orphan.missingParents {
		dm.removeDependent(&missingParent, orphan.BlockHash)
	}
	dm.evicted = append(dm.evicted, orphan)
}

func (dm *DepsManager) removeDependent(parentHash *externalapi.DomainHash, blockHash *externalapi.DomainHash) {
	waiting, ok := dm.dependents[*parentHash]
	if !ok {
		return
	}
	delete(waiting, *blockHash)
	if len(waiting) == 0 {
		delete(dm.dependents, *parentHash)
	}
}

// ReleaseDependents marks acceptedHash as known and returns the orphans
// that have no missing parents left, oldest first. The released orphans
// leave the pool. The caller releases their own dependents once it
// accepts them.
func (dm *DepsManager) ReleaseDependents(acceptedHash *externalapi.DomainHash) []*Orphan {
	dm.mutex.Lock()
	defer dm.mutex.Unlock()

	waiting, ok := dm.dependents[*acceptedHash]
	if !ok {
		return nil
	}
	delete(dm.dependents, *acceptedHash)

	var released []*Orphan
	for _, orphan := range waiting {
		delete(orphan.missingParents, *acceptedHash)
		if len(orphan.missingParents) == 0 {
			released = append(released, orphan)
		}
	}
	sort.Slice(released, func(i, j int) bool {
		return released[i].sequence < released[j].sequence
	})

	for _, orphan := range released {
		dm.orphans.Remove(*orphan.BlockHash)
	}
	return released
}

// IsOrphan returns whether blockHash is waiting in the pool
func (dm *DepsManager) IsOrphan(blockHash *externalapi.DomainHash) bool {
	dm.mutex.Lock()
	defer dm.mutex.Unlock()

	return dm.orphans.Contains(*blockHash)
}

// MissingParents returns the parents blockHash still waits for, or nil if
// it is not an orphan
func (dm *DepsManager) MissingParents(blockHash *externalapi.DomainHash) []*externalapi.DomainHash {
	dm.mutex.Lock()
	defer dm.mutex.Unlock()

	value, ok := dm.orphans.Peek(*blockHash)
	if !ok {
		return nil
	}
	orphan := value.(*Orphan)
	missingParents := make([]*externalapi.DomainHash, 0, len(orphan.missingParents))
	for missingParent := range orphan.missingParents {
		missingParent := missingParent
		missingParents = append(missingParents, &missingParent)
	}
	return missingParents
}

// Len returns the number of orphans in the pool
func (dm *DepsManager) Len() int {
	dm.mutex.Lock()
	defer dm.mutex.Unlock()

	return dm.orphans.Len()
}
