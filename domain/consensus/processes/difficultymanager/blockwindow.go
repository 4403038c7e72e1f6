package difficultymanager

import (
	"math"
	"math/big"

	"github.com/kaspanet/ghostdagd/domain/consensus/model"
	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ghostdagd/util/difficulty"
)

type difficultyBlock struct {
	timeInMilliseconds int64
	bits               uint32
}

type blockWindow []difficultyBlock

func (dm *difficultyManager) blockWindow(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash,
	windowSize int) (blockWindow, error) {

	windowHashes, err := dm.dagTraversalManager.BlueWindow(stagingArea, blockHash, windowSize)
	if err != nil {
		return nil, err
	}

	window := make(blockWindow, 0, len(windowHashes))
	for _, hash := range windowHashes {
		header, err := dm.headerStore.BlockHeader(dm.databaseContext, stagingArea, hash)
		if err != nil {
			return nil, err
		}
		window = append(window, difficultyBlock{
			timeInMilliseconds: header.TimeInMilliseconds,
			bits:               header.Bits,
		})
	}
	return window, nil
}

func (window blockWindow) minTimestamp() (min int64, index int) {
	min = math.MaxInt64
	for i, block := range window {
		if block.timeInMilliseconds < min {
			min = block.timeInMilliseconds
			index = i
		}
	}
	return min, index
}

func (window blockWindow) maxTimestamp() int64 {
	max := int64(math.MinInt64)
	for _, block := range window {
		if block.timeInMilliseconds > max {
			max = block.timeInMilliseconds
		}
	}
	return max
}

func (window *blockWindow) remove(n int) {
	(*window)[n] = (*window)[len(*window)-1]
	*window = (*window)[:len(*window)-1]
}

func (window blockWindow) averageTarget() *big.Int {
	averageTarget := new(big.Int)
	targetTmp := new(big.Int)
	for _, block := range window {
		difficulty.CompactToBigWithDestination(block.bits, targetTmp)
		averageTarget.Add(averageTarget, targetTmp)
	}
	return averageTarget.Div(averageTarget, big.NewInt(int64(len(window))))
}
