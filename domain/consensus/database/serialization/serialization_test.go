package serialization

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/kaspanet/ghostdagd/domain/consensus/model"
	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ghostdagd/domain/consensus/utils/subnetworks"
	"github.com/kaspanet/ghostdagd/domain/consensus/utils/utxo"
)

func hashFromByte(b byte) *externalapi.DomainHash {
	var hashBytes [externalapi.DomainHashSize]byte
	hashBytes[0] = b
	hashBytes[externalapi.DomainHashSize-1] = b
	return externalapi.NewDomainHashFromByteArray(&hashBytes)
}

func TestGHOSTDAGDataSerialization(t *testing.T) {
	blueWork, ok := new(big.Int).SetString("fedcba9876543210fedcba9876543210fedcba9876543210", 16)
	if !ok {
		t.Fatalf("failed to parse blue work")
	}
	ghostdagData := externalapi.NewBlockGHOSTDAGData(
		17,
		blueWork,
		hashFromByte(1),
		[]*externalapi.DomainHash{hashFromByte(1), hashFromByte(2)},
		[]*externalapi.DomainHash{hashFromByte(3)},
		map[externalapi.DomainHash]externalapi.KType{*hashFromByte(1): 0, *hashFromByte(2): 1},
		9,
	)

	serialized, err := SerializeBlockGHOSTDAGData(ghostdagData)
	if err != nil {
		t.Fatalf("SerializeBlockGHOSTDAGData: %+v", err)
	}
	again, err := SerializeBlockGHOSTDAGData(ghostdagData)
	if err != nil {
		t.Fatalf("SerializeBlockGHOSTDAGData: %+v", err)
	}
	if !bytes.Equal(serialized, again) {
		t.Fatalf("GHOSTDAG data serialization is not deterministic")
	}

	deserialized, err := DeserializeBlockGHOSTDAGData(serialized)
	if err != nil {
		t.Fatalf("DeserializeBlockGHOSTDAGData: %+v", err)
	}
	if !deserialized.Equal(ghostdagData) {
		t.Fatalf("deserialized GHOSTDAG data is different from the original")
	}
}

func TestSerializeBlueWork(t *testing.T) {
	tests := []struct {
		name         string
		blueWork     *big.Int
		expectsError bool
	}{
		{name: "zero", blueWork: big.NewInt(0)},
		{name: "small", blueWork: big.NewInt(0x1234)},
		{name: "max", blueWork: new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 192), big.NewInt(1))},
		{name: "overflow", blueWork: new(big.Int).Lsh(big.NewInt(1), 192), expectsError: true},
		{name: "negative", blueWork: big.NewInt(-1), expectsError: true},
	}

	for _, test := range tests {
		serialized, err := SerializeBlueWork(test.blueWork)
		if test.expectsError {
			if err == nil {
				t.Errorf("%s: expected an error", test.name)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: unexpected error: %+v", test.name, err)
			continue
		}
		if len(serialized) != BlueWorkSize {
			t.Errorf("%s: blue work serialized to %d bytes instead of %d", test.name, len(serialized), BlueWorkSize)
		}
		if new(big.Int).SetBytes(serialized).Cmp(test.blueWork) != 0 {
			t.Errorf("%s: blue work did not survive serialization", test.name)
		}
	}
}

func TestBlockSerialization(t *testing.T) {
	block := &externalapi.DomainBlock{
		Header: &externalapi.DomainBlockHeader{
			Version:            0,
			ParentHashes:       []*externalapi.DomainHash{hashFromByte(1), hashFromByte(2)},
			HashMerkleRoot:     *hashFromByte(3),
			UTXOCommitment:     *hashFromByte(4),
			TimeInMilliseconds: 1600000000123,
			Bits:               0x207fffff,
			Nonce:              0xdeadbeefcafebabe,
		},
		Transactions: []*externalapi.DomainTransaction{
			{
				Version: 0,
				Inputs:  []*externalapi.DomainTransactionInput{},
				Outputs: []*externalapi.DomainTransactionOutput{
					{Value: 50, ScriptPublicKey: &externalapi.ScriptPublicKey{Script: []byte{0x51}, Version: 0}},
				},
				SubnetworkID: subnetworks.SubnetworkIDCoinbase,
				Payload:      []byte{1, 2, 3},
			},
			{
				Version: 0,
				Inputs: []*externalapi.DomainTransactionInput{
					{
						PreviousOutpoint: *externalapi.NewDomainOutpoint(
							(*externalapi.DomainTransactionID)(hashFromByte(5)), 2),
						SignatureScript: []byte{0x01},
						Sequence:        7,
					},
				},
				Outputs: []*externalapi.DomainTransactionOutput{
					{Value: 10, ScriptPublicKey: &externalapi.ScriptPublicKey{Script: []byte{}, Version: 0}},
				},
				LockTime:     3,
				SubnetworkID: subnetworks.SubnetworkIDNative,
				Payload:      []byte{},
			},
		},
	}

	deserialized, err := DeserializeBlock(SerializeBlock(block))
	if err != nil {
		t.Fatalf("DeserializeBlock: %+v", err)
	}
	if !deserialized.Equal(block) {
		t.Fatalf("deserialized block is different from the original")
	}
}

func TestReachabilityDataSerialization(t *testing.T) {
	tests := []*model.ReachabilityData{
		{
			TreeNode: &model.ReachabilityTreeNode{
				Children: []*externalapi.DomainHash{hashFromByte(2), hashFromByte(3)},
				Parent:   nil,
				Interval: &model.ReachabilityInterval{Start: 1, End: ^uint64(0) - 1},
			},
			FutureCoveringSet: model.FutureCoveringTreeNodeSet{},
		},
		{
			TreeNode: &model.ReachabilityTreeNode{
				Children: []*externalapi.DomainHash{},
				Parent:   hashFromByte(1),
				Interval: &model.ReachabilityInterval{Start: 100, End: 99},
			},
			FutureCoveringSet: model.FutureCoveringTreeNodeSet{hashFromByte(4)},
		},
	}

	for i, reachabilityData := range tests {
		deserialized, err := DeserializeReachabilityData(SerializeReachabilityData(reachabilityData))
		if err != nil {
			t.Fatalf("test %d: DeserializeReachabilityData: %+v", i, err)
		}
		if !deserialized.Equal(reachabilityData) {
			t.Fatalf("test %d: deserialized reachability data is different from the original", i)
		}
	}
}

func TestBlockRelationsAndHashesSerialization(t *testing.T) {
	blockRelations := &model.BlockRelations{
		Parents:  []*externalapi.DomainHash{hashFromByte(1)},
		Children: []*externalapi.DomainHash{hashFromByte(2), hashFromByte(3)},
	}
	deserialized, err := DeserializeBlockRelations(SerializeBlockRelations(blockRelations))
	if err != nil {
		t.Fatalf("DeserializeBlockRelations: %+v", err)
	}
	if !deserialized.Equal(blockRelations) {
		t.Fatalf("deserialized block relations are different from the original")
	}

	hash, err := DeserializeHash(SerializeHash(hashFromByte(7)))
	if err != nil {
		t.Fatalf("DeserializeHash: %+v", err)
	}
	if !hash.Equal(hashFromByte(7)) {
		t.Fatalf("deserialized hash is different from the original")
	}

	_, err = DeserializeHash(SerializeHashes([]*externalapi.DomainHash{hashFromByte(1), hashFromByte(2)}))
	if err == nil {
		t.Fatalf("expected an error deserializing two hashes as one")
	}
}

func TestUTXODiffSerialization(t *testing.T) {
	entry := utxo.NewUTXOEntry(5, &externalapi.ScriptPublicKey{Script: []byte{0x51}, Version: 0}, false, 3)
	outpoint := externalapi.NewDomainOutpoint((*externalapi.DomainTransactionID)(hashFromByte(9)), 1)
	replacedEntry := utxo.NewUTXOEntry(6, &externalapi.ScriptPublicKey{Script: []byte{0x51}, Version: 0}, true, 2)

	diff := utxo.NewMutableUTXODiff()
	err := diff.RemoveEntry(outpoint, replacedEntry)
	if err != nil {
		t.Fatalf("RemoveEntry: %+v", err)
	}
	err = diff.AddEntry(outpoint, entry)
	if err != nil {
		t.Fatalf("AddEntry: %+v", err)
	}

	serialized, err := SerializeUTXODiff(diff.ToImmutable())
	if err != nil {
		t.Fatalf("SerializeUTXODiff: %+v", err)
	}
	deserialized, err := DeserializeUTXODiff(serialized)
	if err != nil {
		t.Fatalf("DeserializeUTXODiff: %+v", err)
	}
	if !utxo.CollectionsEqual(deserialized.ToAdd(), diff.ToAdd()) ||
		!utxo.CollectionsEqual(deserialized.ToRemove(), diff.ToRemove()) {
		t.Fatalf("deserialized UTXO diff is different from the original")
	}
}

func TestBlockStatusSerialization(t *testing.T) {
	for _, status := range []externalapi.BlockStatus{externalapi.StatusInvalid, externalapi.StatusUTXOValid,
		externalapi.StatusUTXOPendingVerification, externalapi.StatusDisqualifiedFromChain,
		externalapi.StatusHeaderOnly} {

		deserialized, err := DeserializeBlockStatus(SerializeBlockStatus(status))
		if err != nil {
			t.Fatalf("DeserializeBlockStatus: %+v", err)
		}
		if deserialized != status {
			t.Fatalf("expected status %s, got %s", status, deserialized)
		}
	}

	_, err := DeserializeBlockStatus([]byte{0xff})
	if err == nil {
		t.Fatalf("expected an error for an unknown status")
	}
}
