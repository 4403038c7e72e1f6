package config

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kaspanet/ghostdagd/domain/dagconfig"
)

func TestResolveNetwork(t *testing.T) {
	tests := []struct {
		name         string
		flags        NetworkFlags
		expectedName string
		expectError  bool
	}{
		{name: "default", flags: NetworkFlags{}, expectedName: dagconfig.MainnetParams.Name},
		{name: "testnet", flags: NetworkFlags{Testnet: true}, expectedName: dagconfig.TestnetParams.Name},
		{name: "simnet", flags: NetworkFlags{Simnet: true}, expectedName: dagconfig.SimnetParams.Name},
		{name: "devnet", flags: NetworkFlags{Devnet: true}, expectedName: dagconfig.DevnetParams.Name},
		{name: "two networks", flags: NetworkFlags{Testnet: true, Devnet: true}, expectError: true},
	}

	for _, test := range tests {
		networkFlags := test.flags
		err := networkFlags.ResolveNetwork(nil)
		if test.expectError {
			if err == nil {
				t.Errorf("%s: expected an error", test.name)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: unexpected error: %+v", test.name, err)
			continue
		}
		if networkFlags.NetParams().Name != test.expectedName {
			t.Errorf("%s: expected network %s, got %s", test.name, test.expectedName, networkFlags.NetParams().Name)
		}
	}
}

func TestOverrideDAGParams(t *testing.T) {
	tmpDir, err := ioutil.TempDir("", "TestOverrideDAGParams")
	if err != nil {
		t.Fatalf("Failed creating a temporary directory: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	overrideFile := filepath.Join(tmpDir, "override.json")
	err = ioutil.WriteFile(overrideFile, []byte(`{"k": 3, "targetTimePerBlockInMilliSeconds": 250, "skipProofOfWork": true}`), 0600)
	if err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	networkFlags := NetworkFlags{Devnet: true, OverrideDAGParamsFile: overrideFile}
	err = networkFlags.ResolveNetwork(nil)
	if err != nil {
		t.Fatalf("ResolveNetwork: %+v", err)
	}
	params := networkFlags.NetParams()
	if params.K != 3 || params.TargetTimePerBlock != 250*time.Millisecond || !params.SkipProofOfWork {
		t.Fatalf("Overrides were not applied: K=%d, TargetTimePerBlock=%s, SkipProofOfWork=%t",
			params.K, params.TargetTimePerBlock, params.SkipProofOfWork)
	}
	if dagconfig.DevnetParams.K == 3 {
		t.Fatalf("Overrides leaked into the default devnet params")
	}

	networkFlags = NetworkFlags{Testnet: true, OverrideDAGParamsFile: overrideFile}
	if err := networkFlags.ResolveNetwork(nil); err == nil {
		t.Fatalf("Expected overrides to be rejected outside devnet")
	}
}
