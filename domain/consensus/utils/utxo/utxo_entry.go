package utxo

import (
	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
)

type utxoEntry struct {
	amount          uint64
	scriptPublicKey *externalapi.ScriptPublicKey
	blockBlueScore  uint64
	isCoinbase      bool
}

// NewUTXOEntry creates a new utxoEntry representing the given txOut
func NewUTXOEntry(amount uint64, scriptPubKey *externalapi.ScriptPublicKey, isCoinbase bool,
	blockBlueScore uint64) externalapi.UTXOEntry {

	return &utxoEntry{
		amount:          amount,
		scriptPublicKey: scriptPubKey,
		blockBlueScore:  blockBlueScore,
		isCoinbase:      isCoinbase,
	}
}

func (u *utxoEntry) Amount() uint64 {
	return u.amount
}

func (u *utxoEntry) ScriptPublicKey() *externalapi.ScriptPublicKey {
	return u.scriptPublicKey.Clone()
}

func (u *utxoEntry) BlockBlueScore() uint64 {
	return u.blockBlueScore
}

func (u *utxoEntry) IsCoinbase() bool {
	return u.isCoinbase
}

// Equal returns whether entry equals to other
func (u *utxoEntry) Equal(other externalapi.UTXOEntry) bool {
	if u == nil || other == nil {
		return u == nil && other == nil
	}

	return u.Amount() == other.Amount() &&
		u.BlockBlueScore() == other.BlockBlueScore() &&
		u.IsCoinbase() == other.IsCoinbase() &&
		u.scriptPublicKey.Equal(other.ScriptPublicKey())
}
