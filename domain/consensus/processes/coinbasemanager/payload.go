package coinbasemanager

import (
	"encoding/binary"

	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ghostdagd/domain/consensus/ruleerrors"
	"github.com/pkg/errors"
)

var byteOrder = binary.LittleEndian

const uint64Len = 8
const uint16Len = 2
const lengthOfScriptPubKeyLength = 1

// serializeCoinbasePayload builds the coinbase payload based on the provided scriptPubKey and extra data.
// Layout: blue score (8 bytes) | script version (2 bytes) | script length (1 byte) | script | extra data
func (c *coinbaseManager) serializeCoinbasePayload(blueScore uint64,
	coinbaseData *externalapi.DomainCoinbaseData) ([]byte, error) {

	var script []byte
	var scriptVersion uint16
	if coinbaseData.ScriptPublicKey != nil {
		script = coinbaseData.ScriptPublicKey.Script
		scriptVersion = coinbaseData.ScriptPublicKey.Version
	}

	scriptLength := len(script)
	if scriptLength > int(c.coinbasePayloadScriptPublicKeyMaxLength) {
		return nil, errors.Wrapf(ruleerrors.ErrBadCoinbasePayloadLen, "coinbase's payload script public key is "+
			"longer than the max allowed length of %d", c.coinbasePayloadScriptPublicKeyMaxLength)
	}

	prefixLength := uint64Len + uint16Len + lengthOfScriptPubKeyLength
	payload := make([]byte, prefixLength+scriptLength+len(coinbaseData.ExtraData))
	byteOrder.PutUint64(payload[:uint64Len], blueScore)
	byteOrder.PutUint16(payload[uint64Len:uint64Len+uint16Len], scriptVersion)
	payload[uint64Len+uint16Len] = uint8(scriptLength)
	copy(payload[prefixLength:], script)
	copy(payload[prefixLength+scriptLength:], coinbaseData.ExtraData)
	return payload, nil
}

// ExtractCoinbaseDataAndBlueScore deserializes the coinbase payload to its component (scriptPubKey and extra data).
func (c *coinbaseManager) ExtractCoinbaseDataAndBlueScore(coinbaseTx *externalapi.DomainTransaction) (blueScore uint64,
	coinbaseData *externalapi.DomainCoinbaseData, err error) {

	minLength := uint64Len + uint16Len + lengthOfScriptPubKeyLength
	if len(coinbaseTx.Payload) < minLength {
		return 0, nil, errors.Wrapf(ruleerrors.ErrBadCoinbasePayloadLen,
			"coinbase payload is less than the minimum length of %d", minLength)
	}

	blueScore = byteOrder.Uint64(coinbaseTx.Payload[:uint64Len])
	scriptVersion := byteOrder.Uint16(coinbaseTx.Payload[uint64Len : uint64Len+uint16Len])
	scriptLength := int(coinbaseTx.Payload[uint64Len+uint16Len])

	if scriptLength > int(c.coinbasePayloadScriptPublicKeyMaxLength) {
		return 0, nil, errors.Wrapf(ruleerrors.ErrBadCoinbasePayloadLen, "coinbase's payload script public key is "+
			"longer than the max allowed length of %d", c.coinbasePayloadScriptPublicKeyMaxLength)
	}

	if len(coinbaseTx.Payload) < minLength+scriptLength {
		return 0, nil, errors.Wrapf(ruleerrors.ErrBadCoinbasePayloadLen,
			"coinbase payload doesn't have enough bytes to contain a script public key of %d bytes", scriptLength)
	}

	script := make([]byte, scriptLength)
	copy(script, coinbaseTx.Payload[minLength:minLength+scriptLength])
	extraData := make([]byte, len(coinbaseTx.Payload)-minLength-scriptLength)
	copy(extraData, coinbaseTx.Payload[minLength+scriptLength:])

	return blueScore, &externalapi.DomainCoinbaseData{
		ScriptPublicKey: &externalapi.ScriptPublicKey{Script: script, Version: scriptVersion},
		ExtraData:       extraData,
	}, nil
}
