// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package dagconfig

import (
	"errors"
	"testing"

	"github.com/kaspanet/ghostdagd/domain/consensus/utils/consensushashing"
	"github.com/kaspanet/ghostdagd/domain/consensus/utils/merkle"
	"github.com/kaspanet/ghostdagd/util/difficulty"
)

func TestGenesisBlocks(t *testing.T) {
	allParams := []*Params{&MainnetParams, &TestnetParams, &SimnetParams, &DevnetParams}

	seenHashes := make(map[string]string)
	for _, params := range allParams {
		genesisHash := consensushashing.BlockHash(params.GenesisBlock)
		if !genesisHash.Equal(params.GenesisHash) {
			t.Errorf("%s: GenesisHash %s does not match the hash of GenesisBlock %s",
				params.Name, params.GenesisHash, genesisHash)
		}

		merkleRoot := merkle.CalculateHashMerkleRoot(params.GenesisBlock.Transactions)
		if !merkleRoot.Equal(&params.GenesisBlock.Header.HashMerkleRoot) {
			t.Errorf("%s: genesis merkle root does not match its transactions", params.Name)
		}

		if len(params.GenesisBlock.Header.ParentHashes) != 0 {
			t.Errorf("%s: genesis must not have parents", params.Name)
		}

		target := difficulty.CompactToBig(params.GenesisBlock.Header.Bits)
		if target.Cmp(params.PowMax) > 0 {
			t.Errorf("%s: genesis target %x is above PowMax %x", params.Name, target, params.PowMax)
		}

		if otherName, ok := seenHashes[genesisHash.String()]; ok {
			t.Errorf("%s and %s share the same genesis hash", params.Name, otherName)
		}
		seenHashes[genesisHash.String()] = params.Name
	}
}

func TestParamsByName(t *testing.T) {
	params, err := ParamsByName(SimnetParams.Name)
	if err != nil {
		t.Fatalf("ParamsByName: %+v", err)
	}
	if params != &SimnetParams {
		t.Fatalf("ParamsByName returned %s instead of %s", params.Name, SimnetParams.Name)
	}

	_, err = ParamsByName("no-such-net")
	if !errors.Is(err, ErrUnknownNetwork) {
		t.Fatalf("expected ErrUnknownNetwork, got %v", err)
	}
}
