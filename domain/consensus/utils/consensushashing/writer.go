package consensushashing

import (
	"encoding/binary"

	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ghostdagd/domain/consensus/utils/hashes"
)

// hashWriter writes fixed width little-endian fields into a domain separated
// hash writer. The layout is part of consensus and must never change.
type hashWriter struct {
	writer hashes.HashWriter
}

func (w *hashWriter) writeUint16(value uint16) {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], value)
	w.writer.InfallibleWrite(buf[:])
}

func (w *hashWriter) writeUint32(value uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], value)
	w.writer.InfallibleWrite(buf[:])
}

func (w *hashWriter) writeUint64(value uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], value)
	w.writer.InfallibleWrite(buf[:])
}

func (w *hashWriter) writeHash(hash *externalapi.DomainHash) {
	w.writer.InfallibleWrite(hash.ByteSlice())
}

func (w *hashWriter) writeVarBytes(data []byte) {
	w.writeUint64(uint64(len(data)))
	w.writer.InfallibleWrite(data)
}
