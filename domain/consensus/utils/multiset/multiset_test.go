package multiset

import (
	"testing"
)

func TestMultisetOrderIndependence(t *testing.T) {
	elements := [][]byte{{1}, {2, 3}, {4, 5, 6}}

	forward := New()
	for _, element := range elements {
		forward.Add(element)
	}
	backward := New()
	for i := len(elements) - 1; i >= 0; i-- {
		backward.Add(elements[i])
	}
	if !forward.Hash().Equal(backward.Hash()) {
		t.Fatalf("multiset hash depends on insertion order")
	}

	forward.Remove(elements[1])
	onlyTwo := New()
	onlyTwo.Add(elements[0])
	onlyTwo.Add(elements[2])
	if !forward.Hash().Equal(onlyTwo.Hash()) {
		t.Fatalf("removing an element did not cancel its addition")
	}
}

func TestMultisetCloneAndSerialize(t *testing.T) {
	ms := New()
	ms.Add([]byte("utxo"))

	clone := ms.Clone()
	clone.Add([]byte("another utxo"))
	if ms.Hash().Equal(clone.Hash()) {
		t.Fatalf("changing a clone changed the original multiset")
	}

	deserialized, err := FromBytes(ms.Serialize())
	if err != nil {
		t.Fatalf("FromBytes: %+v", err)
	}
	if !deserialized.Hash().Equal(ms.Hash()) {
		t.Fatalf("deserialized multiset has a different hash")
	}

	_, err = FromBytes([]byte{1, 2, 3})
	if err == nil {
		t.Fatalf("expected an error for malformed multiset bytes")
	}
}
