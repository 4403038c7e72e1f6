package blockbuilder

import (
	"encoding/binary"
	"sync/atomic"

	"github.com/kaspanet/ghostdagd/domain/consensus/model"
	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ghostdagd/domain/consensus/model/testapi"
	"github.com/kaspanet/ghostdagd/infrastructure/logger"
)

type testBlockBuilder struct {
	*blockBuilder

	// coinbaseCounter keeps default coinbases of sibling blocks apart
	coinbaseCounter uint64
}

// NewTestBlockBuilder creates an instance of a TestBlockBuilder
func NewTestBlockBuilder(baseBlockBuilder model.BlockBuilder) testapi.TestBlockBuilder {
	return &testBlockBuilder{blockBuilder: baseBlockBuilder.(*blockBuilder)}
}

func (bb *testBlockBuilder) BuildBlockWithParents(parentHashes []*externalapi.DomainHash,
	coinbaseData *externalapi.DomainCoinbaseData, transactions []*externalapi.DomainTransaction) (
	*externalapi.DomainBlock, error) {

	onEnd := logger.LogAndMeasureExecutionTime(log, "BuildBlockWithParents")
	defer onEnd()

	if coinbaseData == nil {
		extraData := make([]byte, 8)
		binary.LittleEndian.PutUint64(extraData, atomic.AddUint64(&bb.coinbaseCounter, 1))
		coinbaseData = &externalapi.DomainCoinbaseData{
			ScriptPublicKey: &externalapi.ScriptPublicKey{Script: []byte{}, Version: 0},
			ExtraData:       extraData,
		}
	}

	return bb.buildBlock(model.NewStagingArea(), parentHashes, coinbaseData, transactions)
}
