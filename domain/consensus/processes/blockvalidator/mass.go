package blockvalidator

import (
	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ghostdagd/domain/consensus/utils/constants"
)

// transactionMass weighs the estimated serialized size of the transaction
// and, more heavily, its script public keys
func transactionMass(tx *externalapi.DomainTransaction) uint64 {
	scriptPubKeySize := uint64(0)
	for _, output := range tx.Outputs {
		scriptPubKeySize += 2 // script public key version (uint16)
		if output.ScriptPublicKey != nil {
			scriptPubKeySize += uint64(len(output.ScriptPublicKey.Script))
		}
	}
	return transactionEstimatedSerializedSize(tx)*constants.MassPerTxByte +
		scriptPubKeySize*constants.MassPerScriptPubKeyByte
}

// transactionEstimatedSerializedSize is deterministic but not necessarily
// the size of any actual encoding
func transactionEstimatedSerializedSize(tx *externalapi.DomainTransaction) uint64 {
	size := uint64(0)
	size += 2 // version (uint16)

	size += 8 // number of inputs (uint64)
	for _, input := range tx.Inputs {
		size += externalapi.DomainHashSize + 4 // outpoint
		size += 8                              // length of signature script (uint64)
		size += uint64(len(input.SignatureScript))
		size += 8 // sequence (uint64)
	}

	size += 8 // number of outputs (uint64)
	for _, output := range tx.Outputs {
		size += 8 // value (uint64)
		size += 2 // script public key version (uint16)
		size += 8 // length of script public key (uint64)
		if output.ScriptPublicKey != nil {
			size += uint64(len(output.ScriptPublicKey.Script))
		}
	}

	size += 8 // lock time (uint64)
	size += externalapi.DomainSubnetworkIDSize
	size += 8 // gas (uint64)
	size += 8 // length of the payload (uint64)
	size += uint64(len(tx.Payload))
	return size
}
