package difficultymanager

import (
	"math/big"
	"time"

	"github.com/kaspanet/ghostdagd/domain/consensus/model"
	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ghostdagd/util/difficulty"
)

// DifficultyManager provides a method to resolve the
// difficulty value of a block
type difficultyManager struct {
	databaseContext                model.DBReader
	dagTraversalManager            model.DAGTraversalManager
	headerStore                    model.BlockHeaderStore
	powMax                         *big.Int
	genesisBits                    uint32
	difficultyAdjustmentWindowSize int
	maxDifficultyAdjustmentFactor  int64
	disableDifficultyAdjustment    bool
	targetTimePerBlock             time.Duration
}

// New instantiates a new DifficultyManager
func New(databaseContext model.DBReader,
	dagTraversalManager model.DAGTraversalManager,
	headerStore model.BlockHeaderStore,
	powMax *big.Int,
	genesisBits uint32,
	difficultyAdjustmentWindowSize int,
	maxDifficultyAdjustmentFactor int64,
	disableDifficultyAdjustment bool,
	targetTimePerBlock time.Duration) model.DifficultyManager {

	return &difficultyManager{
		databaseContext:                databaseContext,
		dagTraversalManager:            dagTraversalManager,
		headerStore:                    headerStore,
		powMax:                         powMax,
		genesisBits:                    genesisBits,
		difficultyAdjustmentWindowSize: difficultyAdjustmentWindowSize,
		maxDifficultyAdjustmentFactor:  maxDifficultyAdjustmentFactor,
		disableDifficultyAdjustment:    disableDifficultyAdjustment,
		targetTimePerBlock:             targetTimePerBlock,
	}
}

// RequiredDifficulty returns the difficulty required for the block with the
// given hash. The block must already have GHOSTDAG data staged
func (dm *difficultyManager) RequiredDifficulty(stagingArea *model.StagingArea,
	blockHash *externalapi.DomainHash) (uint32, error) {

	if dm.disableDifficultyAdjustment {
		return dm.genesisBits, nil
	}

	// The window holds one block more than the adjustment window size, since
	// the block with the earliest timestamp only serves as the time reference
	targetsWindow, err := dm.blockWindow(stagingArea, blockHash, dm.difficultyAdjustmentWindowSize+1)
	if err != nil {
		return 0, err
	}

	if len(targetsWindow) < dm.difficultyAdjustmentWindowSize+1 {
		return dm.genesisBits, nil
	}

	return difficulty.BigToCompact(dm.calculateTarget(targetsWindow)), nil
}

// calculateTarget computes the target expected of a block whose window is
// the given full window
func (dm *difficultyManager) calculateTarget(targetsWindow blockWindow) *big.Int {
	minTime, minTimeIndex := targetsWindow.minTimestamp()
	maxTime := targetsWindow.maxTimestamp()
	targetsWindow.remove(minTimeIndex)

	averageTarget := targetsWindow.averageTarget()

	// newTarget = averageTarget * (maxTime - minTime) / (targetTimePerBlock * windowSize)
	newTarget := new(big.Int).Mul(averageTarget, big.NewInt(maxTime-minTime))
	newTarget.Div(newTarget, big.NewInt(dm.targetTimePerBlock.Milliseconds()))
	newTarget.Div(newTarget, big.NewInt(int64(len(targetsWindow))))

	factor := big.NewInt(dm.maxDifficultyAdjustmentFactor)
	lowerBound := new(big.Int).Div(averageTarget, factor)
	upperBound := new(big.Int).Mul(averageTarget, factor)
	if newTarget.Cmp(lowerBound) < 0 {
		newTarget = lowerBound
	}
	if newTarget.Cmp(upperBound) > 0 {
		newTarget = upperBound
	}
	if newTarget.Sign() <= 0 {
		newTarget = big.NewInt(1)
	}
	if newTarget.Cmp(dm.powMax) > 0 {
		return new(big.Int).Set(dm.powMax)
	}
	return newTarget
}
