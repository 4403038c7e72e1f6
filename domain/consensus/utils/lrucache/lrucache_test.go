package lrucache

import (
	"testing"

	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
)

func hashFromByte(b byte) *externalapi.DomainHash {
	var hashBytes [externalapi.DomainHashSize]byte
	hashBytes[0] = b
	return externalapi.NewDomainHashFromByteArray(&hashBytes)
}

func TestLRUCacheEviction(t *testing.T) {
	cache := New(2)
	cache.Add(hashFromByte(1), "one")
	cache.Add(hashFromByte(2), "two")

	// Touch 1 so that 2 becomes the least recently used entry
	if value, ok := cache.Get(hashFromByte(1)); !ok || value.(string) != "one" {
		t.Fatalf("expected to find entry 1")
	}
	cache.Add(hashFromByte(3), "three")

	if cache.Has(hashFromByte(2)) {
		t.Fatalf("expected entry 2 to be evicted")
	}
	if !cache.Has(hashFromByte(1)) || !cache.Has(hashFromByte(3)) {
		t.Fatalf("expected entries 1 and 3 to remain")
	}

	cache.Remove(hashFromByte(1))
	if cache.Len() != 1 {
		t.Fatalf("expected 1 entry after Remove, got %d", cache.Len())
	}
	cache.Clear()
	if cache.Len() != 0 {
		t.Fatalf("expected an empty cache after Clear, got %d", cache.Len())
	}
}
