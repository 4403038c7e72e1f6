package consensus

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ghostdagd/domain/consensus/utils/consensushashing"
	"github.com/kaspanet/ghostdagd/domain/consensus/utils/testutils"
	"github.com/kaspanet/ghostdagd/domain/dagconfig"
	"github.com/kaspanet/ghostdagd/infrastructure/db/database/ldb"
)

func TestNewConsensus(t *testing.T) {
	dataDir, err := ioutil.TempDir("", "TestNewConsensus")
	if err != nil {
		t.Fatalf("TempDir: %+v", err)
	}
	defer os.RemoveAll(dataDir)

	params := dagconfig.SimnetParams
	params.SkipProofOfWork = true

	db, err := ldb.NewLevelDB(dataDir, defaultTestLeveldbCacheSizeMiB)
	if err != nil {
		t.Fatalf("NewLevelDB: %+v", err)
	}

	factory := NewFactory()
	dag, err := factory.NewConsensus(&params, db)
	if err != nil {
		t.Fatalf("NewConsensus: %+v", err)
	}

	virtualSelectedParent, err := dag.GetVirtualSelectedParent()
	if err != nil {
		t.Fatalf("GetVirtualSelectedParent: %+v", err)
	}
	if !virtualSelectedParent.Equal(params.GenesisHash) {
		t.Fatalf("Expected the genesis to be the virtual selected parent, but got %s", virtualSelectedParent)
	}
	tips, err := dag.Tips()
	if err != nil {
		t.Fatalf("Tips: %+v", err)
	}
	if !externalapi.HashesEqual(tips, []*externalapi.DomainHash{params.GenesisHash}) {
		t.Fatalf("Expected the genesis to be the only tip, but got %s", tips)
	}

	block, err := dag.BuildBlock(testutils.OpTrueCoinbaseData(nil), nil)
	if err != nil {
		t.Fatalf("BuildBlock: %+v", err)
	}
	_, err = dag.ValidateAndInsertBlock(block)
	if err != nil {
		t.Fatalf("ValidateAndInsertBlock: %+v", err)
	}

	err = db.Close()
	if err != nil {
		t.Fatalf("Close: %+v", err)
	}

	// Reopening the same database must find the DAG where it was left
	db, err = ldb.NewLevelDB(dataDir, defaultTestLeveldbCacheSizeMiB)
	if err != nil {
		t.Fatalf("NewLevelDB: %+v", err)
	}
	defer db.Close()

	reopened, err := factory.NewConsensus(&params, db)
	if err != nil {
		t.Fatalf("NewConsensus: %+v", err)
	}
	tips, err = reopened.Tips()
	if err != nil {
		t.Fatalf("Tips: %+v", err)
	}
	blockHash := consensushashing.BlockHash(block)
	if !externalapi.HashesEqual(tips, []*externalapi.DomainHash{blockHash}) {
		t.Fatalf("Expected %s to be the only tip, but got %s", blockHash, tips)
	}
	virtualInfo, err := reopened.GetVirtualInfo()
	if err != nil {
		t.Fatalf("GetVirtualInfo: %+v", err)
	}
	if virtualInfo.BlueScore != 2 {
		t.Fatalf("Expected a virtual blue score of 2, but got %d", virtualInfo.BlueScore)
	}
}
