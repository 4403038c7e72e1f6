package pipeline

import (
	"testing"

	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
)

func hashFromByte(b byte) *externalapi.DomainHash {
	return externalapi.NewDomainHashFromByteArray(&[externalapi.DomainHashSize]byte{b})
}

func blockWithParents(parents ...*externalapi.DomainHash) *externalapi.DomainBlock {
	return &externalapi.DomainBlock{Header: &externalapi.DomainBlockHeader{ParentHashes: parents}}
}

func orphanHashes(orphans []*Orphan) []*externalapi.DomainHash {
	hashes := make([]*externalapi.DomainHash, len(orphans))
	for i, orphan := range orphans {
		hashes[i] = orphan.BlockHash
	}
	return hashes
}

func TestReleaseDependents(t *testing.T) {
	dm, err := NewDepsManager(10)
	if err != nil {
		t.Fatalf("NewDepsManager: %+v", err)
	}

	p, q := hashFromByte(1), hashFromByte(2)
	a, b, c := hashFromByte(10), hashFromByte(11), hashFromByte(12)
	dm.AddOrphan(blockWithParents(p), a, []*externalapi.DomainHash{p})
	dm.AddOrphan(blockWithParents(p, q), b, []*externalapi.DomainHash{p, q})
	dm.AddOrphan(blockWithParents(p), c, []*externalapi.DomainHash{p})

	if dm.Len() != 3 {
		t.Fatalf("Expected 3 orphans, got %d", dm.Len())
	}

	released := orphanHashes(dm.ReleaseDependents(p))
	if !externalapi.HashesEqual(released, []*externalapi.DomainHash{a, c}) {
		t.Fatalf("Expected %s and %s to be released in insertion order, got %s", a, c, released)
	}
	if !dm.IsOrphan(b) {
		t.Fatalf("Expected %s to still wait for %s", b, q)
	}
	missingParents := dm.MissingParents(b)
	if !externalapi.HashesEqual(missingParents, []*externalapi.DomainHash{q}) {
		t.Fatalf("Expected %s to miss only %s, got %s", b, q, missingParents)
	}

	if released := dm.ReleaseDependents(p); len(released) != 0 {
		t.Fatalf("Expected a second release to return nothing, got %s", orphanHashes(released))
	}

	released = orphanHashes(dm.ReleaseDependents(q))
	if !externalapi.HashesEqual(released, []*externalapi.DomainHash{b}) {
		t.Fatalf("Expected %s to be released, got %s", b, released)
	}
	if dm.Len() != 0 {
		t.Fatalf("Expected an empty orphan pool, got %d orphans", dm.Len())
	}
}

func TestOrphanEviction(t *testing.T) {
	dm, err := NewDepsManager(2)
	if err != nil {
		t.Fatalf("NewDepsManager: %+v", err)
	}

	p := hashFromByte(1)
	a, b, c := hashFromByte(10), hashFromByte(11), hashFromByte(12)
	if evicted := dm.AddOrphan(blockWithParents(p), a, []*externalapi.DomainHash{p}); len(evicted) != 0 {
		t.Fatalf("Unexpected eviction of %s", orphanHashes(evicted))
	}
	dm.AddOrphan(blockWithParents(p), b, []*externalapi.DomainHash{p})

	// Re-adding a refreshes it, so b is now the oldest
	dm.AddOrphan(blockWithParents(p), a, []*externalapi.DomainHash{p})

	evicted := orphanHashes(dm.AddOrphan(blockWithParents(p), c, []*externalapi.DomainHash{p}))
	if !externalapi.HashesEqual(evicted, []*externalapi.DomainHash{b}) {
		t.Fatalf("Expected %s to be evicted, got %s", b, evicted)
	}
	if dm.IsOrphan(b) {
		t.Fatalf("Expected %s to have left the pool", b)
	}
	if dm.MissingParents(b) != nil {
		t.Fatalf("Expected no missing parents for an evicted block")
	}

	released := orphanHashes(dm.ReleaseDependents(p))
	if !externalapi.HashesEqual(released, []*externalapi.DomainHash{a, c}) {
		t.Fatalf("Expected %s and %s to be released, got %s", a, c, released)
	}
}

func TestNewDepsManagerRejectsEmptyPool(t *testing.T) {
	_, err := NewDepsManager(0)
	if err == nil {
		t.Fatalf("Expected an error for an orphan pool of size 0")
	}
}
