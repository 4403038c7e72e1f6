package utxo

import (
	"bytes"
	"testing"

	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
)

func TestSerializeUTXO(t *testing.T) {
	outpoint := testOutpoint(0xaa, 7)
	entry := NewUTXOEntry(5000000000, &externalapi.ScriptPublicKey{
		Script:  []byte{0x20, 0x01, 0x02, 0x03, 0xac},
		Version: 0,
	}, true, 123)

	serialized := SerializeUTXO(entry, outpoint)
	if !bytes.Equal(serialized, SerializeUTXO(entry, outpoint)) {
		t.Fatalf("SerializeUTXO is not deterministic")
	}

	deserializedEntry, deserializedOutpoint, err := DeserializeUTXO(serialized)
	if err != nil {
		t.Fatalf("DeserializeUTXO: %+v", err)
	}
	if !deserializedEntry.Equal(entry) {
		t.Fatalf("deserialized entry is different from the original")
	}
	if !deserializedOutpoint.Equal(outpoint) {
		t.Fatalf("deserialized outpoint %s is different from %s", deserializedOutpoint, outpoint)
	}

	otherOutpoint := testOutpoint(0xaa, 8)
	if bytes.Equal(serialized, SerializeUTXO(entry, otherOutpoint)) {
		t.Fatalf("different outpoints serialized to the same bytes")
	}
}

func TestDeserializeUTXOErrors(t *testing.T) {
	entry := testEntry(1, 1)

	serializedEntry := SerializeUTXOEntry(entry)
	_, _, err := DeserializeUTXO(serializedEntry)
	if err == nil {
		t.Fatalf("expected an error for a UTXO without an outpoint")
	}

	deserialized, err := DeserializeUTXOEntry(serializedEntry)
	if err != nil {
		t.Fatalf("DeserializeUTXOEntry: %+v", err)
	}
	if !deserialized.Equal(entry) {
		t.Fatalf("deserialized entry is different from the original")
	}

	truncated := SerializeUTXO(entry, testOutpoint(1, 1))
	_, _, err = DeserializeUTXO(truncated[:len(truncated)-1])
	if err == nil {
		t.Fatalf("expected an error for a truncated UTXO")
	}
}
