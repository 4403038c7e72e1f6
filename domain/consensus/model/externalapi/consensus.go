package externalapi

// Consensus maintains the current core state of the node
type Consensus interface {
	ValidateAndInsertBlock(block *DomainBlock) (*BlockInsertionResult, error)

	GetBlock(blockHash *DomainHash) (*DomainBlock, error)
	GetBlockHeader(blockHash *DomainHash) (*DomainBlockHeader, error)
	GetBlockInfo(blockHash *DomainHash) (*BlockInfo, error)
	GetBlockGHOSTDAGData(blockHash *DomainHash) (*BlockGHOSTDAGData, error)

	GetVirtualInfo() (*VirtualInfo, error)
	GetVirtualSelectedParent() (*DomainHash, error)
	Tips() ([]*DomainHash, error)
	GetSelectedChain(blockHash *DomainHash) ([]*DomainHash, error)
	GetAnticone(blockHash *DomainHash) ([]*DomainHash, error)
	IsDAGAncestorOf(blockHashA, blockHashB *DomainHash) (bool, error)

	GetVirtualUTXOs() ([]*OutpointAndUTXOEntryPair, error)
	GetUTXOEntry(outpoint *DomainOutpoint) (UTXOEntry, bool, error)

	BuildBlock(coinbaseData *DomainCoinbaseData, transactions []*DomainTransaction) (*DomainBlock, error)
}
