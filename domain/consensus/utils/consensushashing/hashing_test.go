package consensushashing

import (
	"testing"

	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ghostdagd/domain/consensus/utils/subnetworks"
)

func TestHeaderHashCoversEveryField(t *testing.T) {
	base := &externalapi.DomainBlockHeader{
		Version:            0,
		ParentHashes:       []*externalapi.DomainHash{{}},
		TimeInMilliseconds: 1000,
		Bits:               0x207fffff,
		Nonce:              1,
	}
	baseHash := HeaderHash(base)

	mutations := []func(header *externalapi.DomainBlockHeader){
		func(header *externalapi.DomainBlockHeader) { header.Version = 1 },
		func(header *externalapi.DomainBlockHeader) { header.ParentHashes = nil },
		func(header *externalapi.DomainBlockHeader) { header.Nonce = 2 },
		func(header *externalapi.DomainBlockHeader) { header.TimeInMilliseconds++ },
		func(header *externalapi.DomainBlockHeader) { header.Bits-- },
		func(header *externalapi.DomainBlockHeader) {
			header.UTXOCommitment = *externalapi.NewDomainHashFromByteArray(&[externalapi.DomainHashSize]byte{1})
		},
	}

	for i, mutate := range mutations {
		mutated := base.Clone()
		mutate(mutated)
		if HeaderHash(mutated).Equal(baseHash) {
			t.Errorf("mutation %d did not change the header hash", i)
		}
	}

	if !HeaderHash(base.Clone()).Equal(baseHash) {
		t.Errorf("hashing a clone produced a different hash")
	}
}

func TestTransactionIDIgnoresSignatureScript(t *testing.T) {
	tx := &externalapi.DomainTransaction{
		Inputs: []*externalapi.DomainTransactionInput{{
			PreviousOutpoint: externalapi.DomainOutpoint{Index: 1},
			SignatureScript:  []byte{1, 2, 3},
		}},
		Outputs: []*externalapi.DomainTransactionOutput{{
			Value:           10,
			ScriptPublicKey: &externalapi.ScriptPublicKey{Script: []byte{0x51}},
		}},
		SubnetworkID: subnetworks.SubnetworkIDNative,
	}
	id := TransactionID(tx)

	withOtherSignature := tx.Clone()
	withOtherSignature.Inputs[0].SignatureScript = []byte{4}
	if !TransactionID(withOtherSignature).Equal(id) {
		t.Errorf("signature script affected the transaction ID")
	}

	withOtherValue := tx.Clone()
	withOtherValue.Outputs[0].Value = 11
	if TransactionID(withOtherValue).Equal(id) {
		t.Errorf("output value did not affect the transaction ID")
	}
}
