package main

import (
	"bufio"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"reflect"

	"github.com/naoina/toml"
	"github.com/urfave/cli/v2"

	"github.com/styx-network/gstyx/cmd/utils"
	"github.com/styx-network/gstyx/common"
	"github.com/styx-network/gstyx/escrow"
)

// airdropConfig is the TOML description of one distribution campaign.
// ID and Salt are optional 32-byte hex strings; omitting them draws
// fresh random values at build time.
type airdropConfig struct {
	ID         string
	Salt       string
	Expiry     uint64
	Recipients []airdropRecipient
}

type airdropRecipient struct {
	Address string
	Amount  uint64
}

// tomlSettings ties TOML keys to exact Go field names and rejects
// unknown keys, so a typo in a campaign file fails loudly instead of
// silently dropping an allocation.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		return fmt.Errorf("field '%s' is not defined in %s", field, rt.String())
	},
}

type airdropCampaignJSON struct {
	ID           string `json:"id"`
	ManifestHash string `json:"manifestHash"`
	Root         string `json:"root"`
	Salt         string `json:"salt"`
	Expiry       uint64 `json:"expiry"`
	Leaves       int    `json:"leaves"`
}

type airdropClaimJSON struct {
	Address   string `json:"address"`
	Amount    uint64 `json:"amount"`
	Index     uint32 `json:"index"`
	ClaimCode string `json:"claimCode"`
}

type outputAirdrop struct {
	Campaign airdropCampaignJSON `json:"campaign"`
	Total    uint64              `json:"total"`
	Init     string              `json:"init"`
	Claims   []airdropClaimJSON  `json:"claims"`
}

var commandAirdrop = &cli.Command{
	Name:  "airdrop",
	Usage: "build escrow distribution campaigns",
	Subcommands: []*cli.Command{
		{
			Name:      "build",
			Usage:     "build a campaign from a TOML file",
			ArgsUsage: "<campaign.toml>",
			Description: `
Build a distribution campaign from a TOML file of the form

    Expiry = 1767225600

    [[Recipients]]
    Address = "0x1111..."
    Amount  = 100

and print the campaign record, the init payload funding it and one
claim code per recipient. ID and Salt may be given as 32-byte hex
strings to make the build reproducible; they are drawn at random
when absent.`,
			Action: func(ctx *cli.Context) error {
				path := ctx.Args().First()
				if path == "" {
					utils.Fatalf("No campaign file given")
				}
				var cfg airdropConfig
				if err := loadAirdropConfig(path, &cfg); err != nil {
					utils.Fatalf("Failed to load campaign file: %v", err)
				}
				out, err := buildAirdrop(&cfg)
				if err != nil {
					utils.Fatalf("Failed to build campaign: %v", err)
				}
				mustPrintJSON(out)
				return nil
			},
		},
	},
}

func loadAirdropConfig(file string, cfg *airdropConfig) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	err = tomlSettings.NewDecoder(bufio.NewReader(f)).Decode(cfg)
	// Add file name to errors that have a line number.
	if _, ok := err.(*toml.LineError); ok {
		err = errors.New(file + ", " + err.Error())
	}
	return err
}

// buildAirdrop assembles the campaign, its funding payload and the
// per-recipient claim codes.
func buildAirdrop(cfg *airdropConfig) (*outputAirdrop, error) {
	id, err := word32(cfg.ID, escrow.NewCampaignID)
	if err != nil {
		return nil, fmt.Errorf("ID: %v", err)
	}
	salt, err := word32(cfg.Salt, escrow.NewTreeSalt)
	if err != nil {
		return nil, fmt.Errorf("Salt: %v", err)
	}

	entries := make([]escrow.Entry, len(cfg.Recipients))
	for i, r := range cfg.Recipients {
		if !common.IsHexAddress(r.Address) {
			return nil, fmt.Errorf("recipient %d: invalid address %q", i, r.Address)
		}
		entries[i] = escrow.Entry{Recipient: common.HexToAddress(r.Address), Amount: r.Amount}
	}

	campaign, tree, total, err := escrow.BuildCampaign(id, entries, salt, cfg.Expiry)
	if err != nil {
		return nil, err
	}
	initPayload, err := campaign.Init()
	if err != nil {
		return nil, err
	}

	out := &outputAirdrop{
		Campaign: airdropCampaignJSON{
			ID:           "0x" + hex.EncodeToString(campaign.ID[:]),
			ManifestHash: campaign.ManifestHash.Hex(),
			Root:         campaign.Root.Hex(),
			Salt:         "0x" + hex.EncodeToString(campaign.Salt[:]),
			Expiry:       campaign.Expiry,
			Leaves:       tree.Len(),
		},
		Total:  total,
		Init:   "0x" + hex.EncodeToString(initPayload),
		Claims: make([]airdropClaimJSON, len(entries)),
	}
	for i, e := range entries {
		proof, err := tree.Proof(uint32(i))
		if err != nil {
			return nil, err
		}
		code, err := escrow.EncodeClaimCode(proof)
		if err != nil {
			return nil, err
		}
		out.Claims[i] = airdropClaimJSON{
			Address:   e.Recipient.Hex(),
			Amount:    e.Amount,
			Index:     uint32(i),
			ClaimCode: code,
		}
	}
	return out, nil
}

// word32 parses an optional 32-byte hex string, drawing a fresh random
// value when the string is empty.
func word32(s string, fresh func() ([32]byte, error)) ([32]byte, error) {
	if s == "" {
		return fresh()
	}
	raw := common.FromHex(s)
	if len(raw) != 32 {
		return [32]byte{}, fmt.Errorf("want 32 bytes, got %d", len(raw))
	}
	var out [32]byte
	copy(out[:], raw)
	return out, nil
}
