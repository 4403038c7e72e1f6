package model

import "github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"

// Multiset represents a secure multiset which lets
// the UTXO set be committed to in a single hash
type Multiset interface {
	Add(data []byte)
	Remove(data []byte)
	Hash() *externalapi.DomainHash
	Serialize() []byte
	Clone() Multiset
}
