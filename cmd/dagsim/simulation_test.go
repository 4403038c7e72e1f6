package main

import (
	"context"
	"testing"
	"time"
)

func TestSimulationConverges(t *testing.T) {
	cfg, err := parseConfig([]string{"--simnet", "--appdir", t.TempDir(), "--blocks", "60",
		"--maxparents", "3", "--txs", "2", "--reorder", "6", "--workers", "2", "--seed", "7"})
	if err != nil {
		t.Fatalf("parseConfig: %+v", err)
	}
	cfg.NetParams().SkipProofOfWork = true

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	result, err := simulate(ctx, cfg)
	if err != nil {
		t.Fatalf("simulate: %+v", err)
	}

	if result.mined != 60 {
		t.Fatalf("expected 60 mined blocks, got %d", result.mined)
	}
	if result.accepted != result.mined {
		t.Fatalf("expected every block to be accepted, got %s", result)
	}
	if result.rejected != 0 || result.evicted != 0 {
		t.Fatalf("unexpected rejected or evicted blocks: %s", result)
	}
	if result.tips < 1 || result.tips > 3 {
		t.Fatalf("expected between 1 and 3 tips, got %d", result.tips)
	}
	if result.blueScore == 0 {
		t.Fatalf("expected a positive virtual blue score")
	}
}

func TestParseConfig(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		expectedErr bool
	}{
		{name: "defaults", args: []string{"--simnet"}},
		{name: "two networks", args: []string{"--testnet", "--devnet"}, expectedErr: true},
		{name: "no blocks", args: []string{"--simnet", "--blocks", "0"}, expectedErr: true},
		{name: "no parents", args: []string{"--simnet", "--maxparents", "0"}, expectedErr: true},
		{name: "too many parents", args: []string{"--simnet", "--maxparents", "1000"}, expectedErr: true},
		{name: "negative txs", args: []string{"--simnet", "--txs", "-1"}, expectedErr: true},
		{name: "reorder beyond the orphan pool", args: []string{"--simnet", "--reorder", "100000"}, expectedErr: true},
		{name: "no workers", args: []string{"--simnet", "--workers", "0"}, expectedErr: true},
	}

	for _, test := range tests {
		args := append([]string{"--appdir", t.TempDir()}, test.args...)
		cfg, err := parseConfig(args)
		if test.expectedErr {
			if err == nil {
				t.Errorf("%s: expected an error", test.name)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: unexpected error: %+v", test.name, err)
			continue
		}
		if cfg.NetParams().Name != "kaspa-simnet" {
			t.Errorf("%s: expected simnet, got %s", test.name, cfg.NetParams().Name)
		}
	}
}
