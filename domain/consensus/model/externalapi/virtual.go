package externalapi

import "math/big"

// VirtualInfo represents information about the virtual block needed by external components
type VirtualInfo struct {
	ParentHashes   []*DomainHash
	SelectedParent *DomainHash
	Bits           uint32
	PastMedianTime int64
	BlueScore      uint64
	BlueWork       *big.Int
}
