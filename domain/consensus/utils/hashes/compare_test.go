package hashes

import (
	"testing"

	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
)

func TestLess(t *testing.T) {
	low := externalapi.NewDomainHashFromByteArray(&[externalapi.DomainHashSize]byte{0xff})
	high := externalapi.NewDomainHashFromByteArray(&[externalapi.DomainHashSize]byte{31: 0x01})

	tests := []struct {
		name     string
		a, b     *externalapi.DomainHash
		expected bool
	}{
		{name: "last byte decides", a: low, b: high, expected: true},
		{name: "reverse", a: high, b: low, expected: false},
		{name: "equal", a: low, b: low, expected: false},
	}

	for _, test := range tests {
		if Less(test.a, test.b) != test.expected {
			t.Errorf("%s: Less(%s, %s) expected %t", test.name, test.a, test.b, test.expected)
		}
	}
}

func TestDomainSeparation(t *testing.T) {
	data := []byte("ghostdag")

	blockWriter := NewBlockHashWriter()
	blockWriter.InfallibleWrite(data)
	txWriter := NewTransactionIDWriter()
	txWriter.InfallibleWrite(data)

	if blockWriter.Finalize().Equal(txWriter.Finalize()) {
		t.Fatalf("block hash and transaction ID domains produced the same hash")
	}

	again := NewBlockHashWriter()
	again.InfallibleWrite(data)
	blockWriter = NewBlockHashWriter()
	blockWriter.InfallibleWrite(data)
	if !blockWriter.Finalize().Equal(again.Finalize()) {
		t.Fatalf("hashing the same data twice produced different hashes")
	}
}

func TestToStringsParsesBack(t *testing.T) {
	blockHashes := []*externalapi.DomainHash{
		externalapi.NewDomainHashFromByteArray(&[externalapi.DomainHashSize]byte{0xab}),
		externalapi.NewDomainHashFromByteArray(&[externalapi.DomainHashSize]byte{31: 0xcd}),
	}
	for i, hashString := range ToStrings(blockHashes) {
		parsed, err := externalapi.NewDomainHashFromString(hashString)
		if err != nil {
			t.Fatalf("NewDomainHashFromString(%s): %s", hashString, err)
		}
		if !parsed.Equal(blockHashes[i]) {
			t.Fatalf("expected %s to parse back to %s, got %s", hashString, blockHashes[i], parsed)
		}
	}

	_, err := externalapi.NewDomainHashFromString("abcd")
	if err == nil {
		t.Fatalf("expected an error parsing a short hash string")
	}
}
