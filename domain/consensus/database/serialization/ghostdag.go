package serialization

import (
	"math/big"
	"sort"

	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ghostdagd/domain/consensus/utils/hashes"
	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"
)

// BlueWorkSize is the fixed width of a serialized blue work, in bytes.
// Blue work is a 192-bit unsigned integer.
const BlueWorkSize = 24

const (
	fieldGHOSTDAGBlueScore          protowire.Number = 1
	fieldGHOSTDAGBlueWork           protowire.Number = 2
	fieldGHOSTDAGSelectedParent     protowire.Number = 3
	fieldGHOSTDAGMergeSetBlues      protowire.Number = 4
	fieldGHOSTDAGMergeSetReds       protowire.Number = 5
	fieldGHOSTDAGBluesAnticoneSizes protowire.Number = 6
	fieldGHOSTDAGHeight             protowire.Number = 7

	fieldBluesAnticoneSizesBlueHash     protowire.Number = 1
	fieldBluesAnticoneSizesAnticoneSize protowire.Number = 2
)

// SerializeBlueWork writes blue work as a big-endian number of exactly BlueWorkSize bytes.
func SerializeBlueWork(blueWork *big.Int) ([]byte, error) {
	if blueWork.Sign() < 0 {
		return nil, errors.Errorf("blue work %s is negative", blueWork)
	}
	if blueWork.BitLen() > BlueWorkSize*8 {
		return nil, errors.Errorf("blue work %s does not fit in %d bytes", blueWork, BlueWorkSize)
	}
	return blueWork.FillBytes(make([]byte, BlueWorkSize)), nil
}

// SerializeBlockGHOSTDAGData serializes the given GHOSTDAG data
func SerializeBlockGHOSTDAGData(ghostdagData *externalapi.BlockGHOSTDAGData) ([]byte, error) {
	blueWork, err := SerializeBlueWork(ghostdagData.BlueWork())
	if err != nil {
		return nil, err
	}

	b := appendVarintField(nil, fieldGHOSTDAGBlueScore, ghostdagData.BlueScore())
	b = appendBytesField(b, fieldGHOSTDAGBlueWork, blueWork)
	b = appendHashField(b, fieldGHOSTDAGSelectedParent, ghostdagData.SelectedParent())
	b = appendHashesField(b, fieldGHOSTDAGMergeSetBlues, ghostdagData.MergeSetBlues())
	b = appendHashesField(b, fieldGHOSTDAGMergeSetReds, ghostdagData.MergeSetReds())

	// Sort the anticone sizes so that equal data always serializes to equal bytes
	blueHashes := make([]*externalapi.DomainHash, 0, len(ghostdagData.BluesAnticoneSizes()))
	for blueHash := range ghostdagData.BluesAnticoneSizes() {
		blueHash := blueHash
		blueHashes = append(blueHashes, &blueHash)
	}
	sort.Slice(blueHashes, func(i, j int) bool {
		return hashes.Less(blueHashes[i], blueHashes[j])
	})
	for _, blueHash := range blueHashes {
		anticoneSize := ghostdagData.BluesAnticoneSizes()[*blueHash]
		entry := appendHashField(nil, fieldBluesAnticoneSizesBlueHash, blueHash)
		entry = appendVarintField(entry, fieldBluesAnticoneSizesAnticoneSize, uint64(anticoneSize))
		b = appendBytesField(b, fieldGHOSTDAGBluesAnticoneSizes, entry)
	}

	return appendVarintField(b, fieldGHOSTDAGHeight, ghostdagData.Height()), nil
}

// DeserializeBlockGHOSTDAGData deserializes GHOSTDAG data written by SerializeBlockGHOSTDAGData
func DeserializeBlockGHOSTDAGData(b []byte) (*externalapi.BlockGHOSTDAGData, error) {
	var (
		blueScore          uint64
		blueWork           *big.Int
		selectedParent     *externalapi.DomainHash
		mergeSetBlues      = []*externalapi.DomainHash{}
		mergeSetReds       = []*externalapi.DomainHash{}
		bluesAnticoneSizes = make(map[externalapi.DomainHash]externalapi.KType)
		height             uint64
	)

	err := consumeFields(b, func(field *dbField) error {
		switch field.number {
		case fieldGHOSTDAGBlueScore:
			if err := field.expect(protowire.VarintType); err != nil {
				return err
			}
			blueScore = field.varint
		case fieldGHOSTDAGBlueWork:
			if err := field.expect(protowire.BytesType); err != nil {
				return err
			}
			if len(field.bytes) != BlueWorkSize {
				return errors.Errorf("blue work is expected to be %d bytes but got %d",
					BlueWorkSize, len(field.bytes))
			}
			blueWork = new(big.Int).SetBytes(field.bytes)
		case fieldGHOSTDAGSelectedParent:
			hash, err := fieldToHash(field)
			if err != nil {
				return err
			}
			selectedParent = hash
		case fieldGHOSTDAGMergeSetBlues:
			hash, err := fieldToHash(field)
			if err != nil {
				return err
			}
			mergeSetBlues = append(mergeSetBlues, hash)
		case fieldGHOSTDAGMergeSetReds:
			hash, err := fieldToHash(field)
			if err != nil {
				return err
			}
			mergeSetReds = append(mergeSetReds, hash)
		case fieldGHOSTDAGBluesAnticoneSizes:
			if err := field.expect(protowire.BytesType); err != nil {
				return err
			}
			blueHash, anticoneSize, err := deserializeBluesAnticoneSizesEntry(field.bytes)
			if err != nil {
				return err
			}
			bluesAnticoneSizes[*blueHash] = anticoneSize
		case fieldGHOSTDAGHeight:
			if err := field.expect(protowire.VarintType); err != nil {
				return err
			}
			height = field.varint
		default:
			return unexpectedFieldError("GHOSTDAG data", field)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if blueWork == nil || selectedParent == nil {
		return nil, errors.New("GHOSTDAG data is missing its blue work or selected parent")
	}

	return externalapi.NewBlockGHOSTDAGData(blueScore, blueWork, selectedParent, mergeSetBlues, mergeSetReds,
		bluesAnticoneSizes, height), nil
}

func deserializeBluesAnticoneSizesEntry(b []byte) (*externalapi.DomainHash, externalapi.KType, error) {
	var blueHash *externalapi.DomainHash
	var anticoneSize externalapi.KType
	err := consumeFields(b, func(field *dbField) error {
		switch field.number {
		case fieldBluesAnticoneSizesBlueHash:
			hash, err := fieldToHash(field)
			if err != nil {
				return err
			}
			blueHash = hash
		case fieldBluesAnticoneSizesAnticoneSize:
			if err := field.expect(protowire.VarintType); err != nil {
				return err
			}
			anticoneSize = externalapi.KType(field.varint)
			if uint64(anticoneSize) != field.varint {
				return errors.Errorf("anticone size %d overflows KType", field.varint)
			}
		default:
			return unexpectedFieldError("blues anticone sizes", field)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	if blueHash == nil {
		return nil, 0, errors.New("blues anticone sizes entry is missing its hash")
	}
	return blueHash, anticoneSize, nil
}
