package consensushashing

import (
	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ghostdagd/domain/consensus/utils/hashes"
)

// BlockHash returns the given block's hash
func BlockHash(block *externalapi.DomainBlock) *externalapi.DomainHash {
	return HeaderHash(block.Header)
}

// HeaderHash returns the given header's hash
func HeaderHash(header *externalapi.DomainBlockHeader) *externalapi.DomainHash {
	writer := hashes.NewBlockHashWriter()
	w := &hashWriter{writer}

	w.writeUint16(header.Version)
	w.writeUint64(uint64(len(header.ParentHashes)))
	for _, parentHash := range header.ParentHashes {
		w.writeHash(parentHash)
	}
	w.writeHash(&header.HashMerkleRoot)
	w.writeHash(&header.UTXOCommitment)
	w.writeUint64(uint64(header.TimeInMilliseconds))
	w.writeUint32(header.Bits)
	w.writeUint64(header.Nonce)

	return writer.Finalize()
}
