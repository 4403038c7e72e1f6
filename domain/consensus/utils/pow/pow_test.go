package pow

import (
	"math/big"
	"testing"

	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
)

func TestHashToBig(t *testing.T) {
	var hashBytes [externalapi.DomainHashSize]byte
	hashBytes[0] = 0x01
	hashBytes[externalapi.DomainHashSize-1] = 0x02
	hash := externalapi.NewDomainHashFromByteArray(&hashBytes)

	expected := new(big.Int).Lsh(big.NewInt(2), 8*(externalapi.DomainHashSize-1))
	expected.Add(expected, big.NewInt(1))
	if HashToBig(hash).Cmp(expected) != 0 {
		t.Fatalf("HashToBig: expected %s, got %s", expected, HashToBig(hash))
	}

	// HashToBig must not modify the hash it reads
	if hash.ByteArray()[0] != 0x01 {
		t.Fatalf("HashToBig modified its input")
	}
}

func TestSolveBlock(t *testing.T) {
	header := &externalapi.DomainBlockHeader{
		Version:            0,
		ParentHashes:       []*externalapi.DomainHash{},
		TimeInMilliseconds: 1600000000000,
		Bits:               0x207fffff,
	}
	SolveBlock(header)
	if !CheckProofOfWorkByBits(header) {
		t.Fatalf("SolveBlock returned a header without a valid proof of work")
	}

	if CheckProofOfWorkWithTarget(header, big.NewInt(0)) {
		t.Fatalf("no hash can satisfy a zero target")
	}
}
