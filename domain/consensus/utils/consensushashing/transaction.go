package consensushashing

import (
	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ghostdagd/domain/consensus/utils/hashes"
)

// TransactionID generates the Hash for the transaction without the signature script.
func TransactionID(tx *externalapi.DomainTransaction) *externalapi.DomainTransactionID {
	writer := hashes.NewTransactionIDWriter()
	w := &hashWriter{writer}

	w.writeUint16(tx.Version)
	w.writeUint64(uint64(len(tx.Inputs)))
	for _, input := range tx.Inputs {
		w.writeHash((*externalapi.DomainHash)(&input.PreviousOutpoint.TransactionID))
		w.writeUint32(input.PreviousOutpoint.Index)
		w.writeUint64(input.Sequence)
	}
	w.writeUint64(uint64(len(tx.Outputs)))
	for _, output := range tx.Outputs {
		w.writeUint64(output.Value)
		w.writeUint16(output.ScriptPublicKey.Version)
		w.writeVarBytes(output.ScriptPublicKey.Script)
	}
	w.writeUint64(tx.LockTime)
	w.writer.InfallibleWrite(tx.SubnetworkID[:])
	w.writeUint64(tx.Gas)
	w.writeVarBytes(tx.Payload)

	return (*externalapi.DomainTransactionID)(writer.Finalize())
}
