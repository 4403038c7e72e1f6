package blockvalidator

import (
	"math/big"
	"time"

	"github.com/kaspanet/ghostdagd/domain/consensus/model"
	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
)

// blockValidator exposes a set of validation classes, after which
// it's possible to determine whether either a block is valid
type blockValidator struct {
	powMax                      *big.Int
	skipPoW                     bool
	genesisHash                 *externalapi.DomainHash
	maxBlockMass                uint64
	maxBlockParents             int
	baseSubsidy                 uint64
	timestampDeviationTolerance int
	targetTimePerBlock          time.Duration

	databaseContext       model.DBReader
	difficultyManager     model.DifficultyManager
	pastMedianTimeManager model.PastMedianTimeManager
	dagTopologyManager    model.DAGTopologyManager
	coinbaseManager       model.CoinbaseManager

	blockStore       model.BlockStore
	blockHeaderStore model.BlockHeaderStore
}

// New instantiates a new BlockValidator
func New(powMax *big.Int,
	skipPoW bool,
	genesisHash *externalapi.DomainHash,
	maxBlockMass uint64,
	maxBlockParents int,
	baseSubsidy uint64,
	timestampDeviationTolerance int,
	targetTimePerBlock time.Duration,

	databaseContext model.DBReader,

	difficultyManager model.DifficultyManager,
	pastMedianTimeManager model.PastMedianTimeManager,
	dagTopologyManager model.DAGTopologyManager,
	coinbaseManager model.CoinbaseManager,

	blockStore model.BlockStore,
	blockHeaderStore model.BlockHeaderStore,
) model.BlockValidator {

	return &blockValidator{
		powMax:                      powMax,
		skipPoW:                     skipPoW,
		genesisHash:                 genesisHash,
		maxBlockMass:                maxBlockMass,
		maxBlockParents:             maxBlockParents,
		baseSubsidy:                 baseSubsidy,
		timestampDeviationTolerance: timestampDeviationTolerance,
		targetTimePerBlock:          targetTimePerBlock,

		databaseContext:       databaseContext,
		difficultyManager:     difficultyManager,
		pastMedianTimeManager: pastMedianTimeManager,
		dagTopologyManager:    dagTopologyManager,
		coinbaseManager:       coinbaseManager,

		blockStore:       blockStore,
		blockHeaderStore: blockHeaderStore,
	}
}
