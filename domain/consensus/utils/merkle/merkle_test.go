package merkle

import (
	"testing"

	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ghostdagd/domain/consensus/utils/consensushashing"
	"github.com/kaspanet/ghostdagd/domain/consensus/utils/subnetworks"
)

func testTransaction(payload byte) *externalapi.DomainTransaction {
	return &externalapi.DomainTransaction{
		Outputs:      []*externalapi.DomainTransactionOutput{},
		SubnetworkID: subnetworks.SubnetworkIDCoinbase,
		Payload:      []byte{payload},
	}
}

func TestNextPowerOfTwo(t *testing.T) {
	tests := []struct{ in, out int }{
		{1, 1}, {2, 2}, {3, 4}, {5, 8}, {8, 8}, {9, 16},
	}
	for _, test := range tests {
		if got := nextPowerOfTwo(test.in); got != test.out {
			t.Errorf("nextPowerOfTwo(%d): expected %d, got %d", test.in, test.out, got)
		}
	}
}

func TestCalculateHashMerkleRoot(t *testing.T) {
	single := []*externalapi.DomainTransaction{testTransaction(1)}
	root := CalculateHashMerkleRoot(single)
	expected := (*externalapi.DomainHash)(consensushashing.TransactionID(single[0]))
	if !root.Equal(expected) {
		t.Fatalf("merkle root of a single transaction should be its ID. Want: %s, got: %s", expected, root)
	}

	three := []*externalapi.DomainTransaction{testTransaction(1), testTransaction(2), testTransaction(3)}
	swapped := []*externalapi.DomainTransaction{testTransaction(1), testTransaction(3), testTransaction(2)}
	if CalculateHashMerkleRoot(three).Equal(CalculateHashMerkleRoot(swapped)) {
		t.Fatalf("merkle root should depend on transaction order")
	}
}
