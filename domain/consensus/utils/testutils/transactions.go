package testutils

import (
	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ghostdagd/domain/consensus/utils/consensushashing"
	"github.com/kaspanet/ghostdagd/domain/consensus/utils/constants"
	"github.com/kaspanet/ghostdagd/domain/consensus/utils/transactionhelper"
)

// opTrue is the single opcode script that anyone can spend
const opTrue = 0x51

// OpTrueScript returns a script public key that needs no signature to spend
func OpTrueScript() *externalapi.ScriptPublicKey {
	return &externalapi.ScriptPublicKey{Script: []byte{opTrue}, Version: constants.MaxScriptPublicKeyVersion}
}

// OpTrueCoinbaseData returns coinbase data paying to OpTrueScript with the
// given extra data
func OpTrueCoinbaseData(extraData []byte) *externalapi.DomainCoinbaseData {
	return &externalapi.DomainCoinbaseData{
		ScriptPublicKey: OpTrueScript(),
		ExtraData:       extraData,
	}
}

// CreateTransaction returns a transaction that spends the first output of
// txToSpend in full, paying it back to OpTrueScript
func CreateTransaction(txToSpend *externalapi.DomainTransaction) *externalapi.DomainTransaction {
	input := &externalapi.DomainTransactionInput{
		PreviousOutpoint: *externalapi.NewDomainOutpoint(consensushashing.TransactionID(txToSpend), 0),
		SignatureScript:  []byte{},
		Sequence:         0,
	}
	output := &externalapi.DomainTransactionOutput{
		ScriptPublicKey: OpTrueScript(),
		Value:           txToSpend.Outputs[0].Value,
	}
	return transactionhelper.NewNativeTransaction(constants.MaxTransactionVersion,
		[]*externalapi.DomainTransactionInput{input}, []*externalapi.DomainTransactionOutput{output})
}
