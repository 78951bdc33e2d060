package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/styx-network/gstyx/common"
	"github.com/styx-network/gstyx/escrow"
)

func testAirdropConfig() *airdropConfig {
	return &airdropConfig{
		ID:     "0x" + strings.Repeat("01", 32),
		Salt:   "0x" + strings.Repeat("02", 32),
		Expiry: 1767225600,
		Recipients: []airdropRecipient{
			{Address: "0x" + strings.Repeat("11", 32), Amount: 100},
			{Address: "0x" + strings.Repeat("22", 32), Amount: 200},
			{Address: "0x" + strings.Repeat("33", 32), Amount: 300},
		},
	}
}

func TestBuildAirdrop(t *testing.T) {
	out, err := buildAirdrop(testAirdropConfig())
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if out.Total != 600 {
		t.Fatalf("total = %d, want 600", out.Total)
	}
	if out.Campaign.Leaves != 3 || len(out.Claims) != 3 {
		t.Fatalf("leaves = %d, claims = %d, want 3 each", out.Campaign.Leaves, len(out.Claims))
	}

	// The pinned ID and salt make the build reproducible.
	again, err := buildAirdrop(testAirdropConfig())
	if err != nil {
		t.Fatalf("rebuild failed: %v", err)
	}
	if again.Campaign.Root != out.Campaign.Root || again.Init != out.Init {
		t.Fatalf("build is not deterministic with pinned ID and salt")
	}

	// Every claim code must decode and verify against the root.
	root := common.HexToHash(out.Campaign.Root)
	for i, claim := range out.Claims {
		proof, err := escrow.DecodeClaimCode(claim.ClaimCode)
		if err != nil {
			t.Fatalf("claim %d: decode failed: %v", i, err)
		}
		if proof.Index != claim.Index {
			t.Fatalf("claim %d: index = %d, want %d", i, proof.Index, claim.Index)
		}
		if !escrow.VerifyProof(proof, root) {
			t.Fatalf("claim %d: proof does not verify against root", i)
		}
	}

	// The init payload must round-trip into the campaign record.
	init, err := escrow.DecodeInitCampaign(common.FromHex(out.Init))
	if err != nil {
		t.Fatalf("init payload decode failed: %v", err)
	}
	if init.Root != root || init.Expiry != 1767225600 {
		t.Fatalf("init payload does not match campaign record")
	}
	if init.CampaignID != [32]byte(common.HexToHash(out.Campaign.ID)) {
		t.Fatalf("init campaign id does not match record")
	}
}

func TestBuildAirdropFreshRandomness(t *testing.T) {
	cfg := testAirdropConfig()
	cfg.ID, cfg.Salt = "", ""
	first, err := buildAirdrop(cfg)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	second, err := buildAirdrop(cfg)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if first.Campaign.ID == second.Campaign.ID {
		t.Fatalf("random campaign ids collided")
	}
	if first.Campaign.Salt == second.Campaign.Salt {
		t.Fatalf("random tree salts collided")
	}
}

func TestBuildAirdropValidation(t *testing.T) {
	bad := testAirdropConfig()
	bad.ID = "0x0101"
	if _, err := buildAirdrop(bad); err == nil {
		t.Fatalf("expected short ID error")
	}

	bad = testAirdropConfig()
	bad.Recipients[1].Address = "not-an-address"
	if _, err := buildAirdrop(bad); err == nil {
		t.Fatalf("expected invalid address error")
	}

	bad = testAirdropConfig()
	bad.Recipients[2].Address = bad.Recipients[0].Address
	if _, err := buildAirdrop(bad); !errors.Is(err, escrow.ErrDuplicateRecipient) {
		t.Fatalf("duplicate recipient: got %v", err)
	}

	bad = testAirdropConfig()
	bad.Recipients[0].Amount = 0
	if _, err := buildAirdrop(bad); !errors.Is(err, escrow.ErrZeroAmount) {
		t.Fatalf("zero amount: got %v", err)
	}

	bad = testAirdropConfig()
	bad.Recipients = nil
	if _, err := buildAirdrop(bad); !errors.Is(err, escrow.ErrEmptyCampaign) {
		t.Fatalf("empty campaign: got %v", err)
	}
}

func TestLoadAirdropConfig(t *testing.T) {
	content := `
ID = "0x` + strings.Repeat("01", 32) + `"
Salt = "0x` + strings.Repeat("02", 32) + `"
Expiry = 1767225600

[[Recipients]]
Address = "0x` + strings.Repeat("11", 32) + `"
Amount = 100

[[Recipients]]
Address = "0x` + strings.Repeat("22", 32) + `"
Amount = 200
`
	path := filepath.Join(t.TempDir(), "campaign.toml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	var cfg airdropConfig
	if err := loadAirdropConfig(path, &cfg); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Expiry != 1767225600 || len(cfg.Recipients) != 2 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.Recipients[1].Amount != 200 {
		t.Fatalf("recipient amount = %d, want 200", cfg.Recipients[1].Amount)
	}

	out, err := buildAirdrop(&cfg)
	if err != nil {
		t.Fatalf("build from file failed: %v", err)
	}
	if out.Total != 300 {
		t.Fatalf("total = %d, want 300", out.Total)
	}
}

func TestLoadAirdropConfigRejectsUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "campaign.toml")
	if err := os.WriteFile(path, []byte("Expiry = 1\nTypoKey = 2\n"), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	var cfg airdropConfig
	if err := loadAirdropConfig(path, &cfg); err == nil {
		t.Fatalf("expected unknown key error")
	}
}
