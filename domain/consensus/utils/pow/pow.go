package pow

import (
	"math/big"

	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ghostdagd/domain/consensus/utils/consensushashing"
	"github.com/kaspanet/ghostdagd/util/difficulty"
)

// CheckProofOfWorkWithTarget check's if the block has a valid PoW according to the provided target
// it does not check if the difficulty itself is valid or less than the maximum for the appropriate network
func CheckProofOfWorkWithTarget(header *externalapi.DomainBlockHeader, target *big.Int) bool {
	// The block hash must be less or equal than the claimed target.
	return HashToBig(consensushashing.HeaderHash(header)).Cmp(target) <= 0
}

// CheckProofOfWorkByBits check's if the block has a valid PoW according to its Bits field
// it does not check if the difficulty itself is valid or less than the maximum for the appropriate network
func CheckProofOfWorkByBits(header *externalapi.DomainBlockHeader) bool {
	return CheckProofOfWorkWithTarget(header, difficulty.CompactToBig(header.Bits))
}

// HashToBig converts a *externalapi.DomainHash into a big.Int that can be used to
// perform math comparisons. The hash is read as a little-endian number.
func HashToBig(hash *externalapi.DomainHash) *big.Int {
	// A Hash is in little-endian, but the big package wants the bytes in
	// big-endian, so reverse them.
	buf := hash.ByteArray()
	blen := len(buf)
	for i := 0; i < blen/2; i++ {
		buf[i], buf[blen-1-i] = buf[blen-1-i], buf[i]
	}

	return new(big.Int).SetBytes(buf[:])
}

// SolveBlock increments the nonce of the given header until it satisfies its
// own Bits. It is meant for low difficulty networks such as simnet.
func SolveBlock(header *externalapi.DomainBlockHeader) {
	target := difficulty.CompactToBig(header.Bits)
	for i := uint64(0); ; i++ {
		header.Nonce = i
		if CheckProofOfWorkWithTarget(header, target) {
			return
		}
	}
}
