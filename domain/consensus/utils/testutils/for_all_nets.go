package testutils

import (
	"testing"

	"github.com/kaspanet/ghostdagd/domain/dagconfig"
)

// ForAllNets runs the passed testFunc with all available networks.
// Proof of work is skipped so that blocks can be added without mining them.
func ForAllNets(t *testing.T, testFunc func(*testing.T, *dagconfig.Params)) {
	allParams := []dagconfig.Params{
		dagconfig.MainnetParams,
		dagconfig.TestnetParams,
		dagconfig.SimnetParams,
		dagconfig.DevnetParams,
	}

	for _, params := range allParams {
		params := params
		t.Run(params.Name, func(t *testing.T) {
			t.Parallel()
			params.SkipProofOfWork = true
			t.Logf("Running test for %s", params.Name)
			testFunc(t, &params)
		})
	}
}
