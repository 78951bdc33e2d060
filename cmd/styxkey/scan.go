package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/styx-network/gstyx/cmd/utils"
	"github.com/styx-network/gstyx/common"
	"github.com/styx-network/gstyx/internal/flags"
	"github.com/styx-network/gstyx/stealth"
)

var (
	keyfileFlag = &cli.StringFlag{
		Name:     "keyfile",
		Usage:    "Stealth keyfile written by the generate command",
		Category: flags.KeyCategory,
	}
	viewKeyFlag = &cli.StringFlag{
		Name:     "viewkey",
		Usage:    "View private key as hex (view-only scanning)",
		Category: flags.KeyCategory,
	}
	spendPubFlag = &cli.StringFlag{
		Name:     "spendpub",
		Usage:    "Spend public key as hex (required with --viewkey)",
		Category: flags.KeyCategory,
	}
	deriveFlag = &cli.BoolFlag{
		Name:     "derive",
		Usage:    "Derive the one-time spend key for each match (needs --keyfile)",
		Category: flags.KeyCategory,
	}
)

// announcementJSON is the file form of a payment announcement. Keys
// are hex strings so announcement feeds can be assembled by hand or by
// an indexer.
type announcementJSON struct {
	EphemeralPub   string `json:"ephemeralPub"`
	ViewTag        uint8  `json:"viewTag"`
	OneTimeAddress string `json:"oneTimeAddress"`
	OneTimePub     string `json:"oneTimePub"`
}

type scanMatch struct {
	Index          int    `json:"index"`
	OneTimeAddress string `json:"oneTimeAddress"`
	OneTimePub     string `json:"oneTimePub"`
	SpendKey       string `json:"spendKey,omitempty"`
}

type outputScan struct {
	Scanned int         `json:"scanned"`
	Matches []scanMatch `json:"matches"`
}

var commandScan = &cli.Command{
	Name:      "scan",
	Usage:     "scan an announcement feed for payments to a meta-address",
	ArgsUsage: "<announcements.json>",
	Description: `
Check every announcement in a JSON file against a meta-address and
print the ones that pay it.

Scanning needs the view private key and the spend public key, taken
from a keyfile or passed with --viewkey and --spendpub. The scan is
view-only unless --derive is set, in which case the one-time private
key controlling each matched payment is derived from the keyfile's
spend key and included in the output.`,
	Flags: []cli.Flag{
		keyfileFlag,
		viewKeyFlag,
		spendPubFlag,
		deriveFlag,
	},
	Action: func(ctx *cli.Context) error {
		path := ctx.Args().First()
		if path == "" {
			utils.Fatalf("No announcement file given")
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			utils.Fatalf("Failed to read announcements: %v", err)
		}
		anncs, err := parseAnnouncements(raw)
		if err != nil {
			utils.Fatalf("Failed to parse announcements: %v", err)
		}

		var (
			viewPriv []byte
			spendPub stealth.PublicKey
			spend    *stealth.KeyPair
		)
		switch {
		case ctx.IsSet(keyfileFlag.Name):
			spend, viewPriv = loadStealthKeyfile(ctx.String(keyfileFlag.Name))
			spendPub = spend.PublicKey()
		case ctx.IsSet(viewKeyFlag.Name) && ctx.IsSet(spendPubFlag.Name):
			viewPriv = mustHex(viewKeyFlag.Name, ctx.String(viewKeyFlag.Name))
			spendPub, err = stealth.PublicKeyFromBytes(mustHex(spendPubFlag.Name, ctx.String(spendPubFlag.Name)))
			if err != nil {
				utils.Fatalf("Invalid --%s: %v", spendPubFlag.Name, err)
			}
		default:
			utils.Fatalf("Need --keyfile, or --viewkey together with --spendpub")
		}
		if ctx.Bool(deriveFlag.Name) && spend == nil {
			utils.Fatalf("--derive needs the spend key, pass --keyfile")
		}

		scanner, err := stealth.NewScanner(spendPub, viewPriv)
		if err != nil {
			utils.Fatalf("Failed to build scanner: %v", err)
		}
		if !ctx.Bool(deriveFlag.Name) {
			spend = nil
		}
		out, err := scanAnnouncements(scanner, spend, viewPriv, anncs)
		if err != nil {
			utils.Fatalf("Scan failed: %v", err)
		}
		mustPrintJSON(out)
		return nil
	},
}

func parseAnnouncements(raw []byte) ([]*stealth.Announcement, error) {
	var file []announcementJSON
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, err
	}
	anncs := make([]*stealth.Announcement, len(file))
	for i, a := range file {
		eph, err := parsePublicKeyHex(a.EphemeralPub)
		if err != nil {
			return nil, fmt.Errorf("announcement %d: ephemeralPub: %v", i, err)
		}
		oneTime, err := parsePublicKeyHex(a.OneTimePub)
		if err != nil {
			return nil, fmt.Errorf("announcement %d: oneTimePub: %v", i, err)
		}
		anncs[i] = &stealth.Announcement{
			EphemeralPub:   eph,
			ViewTag:        a.ViewTag,
			OneTimeAddress: common.HexToAddress(a.OneTimeAddress),
			OneTimePub:     oneTime,
		}
	}
	return anncs, nil
}

// scanAnnouncements matches a feed against one scanner. A non-nil
// spend pair additionally derives the one-time key of every match.
func scanAnnouncements(scanner *stealth.Scanner, spend *stealth.KeyPair, viewPriv []byte, anncs []*stealth.Announcement) (*outputScan, error) {
	out := &outputScan{Scanned: len(anncs), Matches: []scanMatch{}}
	for i, annc := range anncs {
		ok, err := scanner.Match(annc)
		if err != nil {
			return nil, fmt.Errorf("announcement %d: %v", i, err)
		}
		if !ok {
			continue
		}
		match := scanMatch{
			Index:          i,
			OneTimeAddress: annc.OneTimeAddress.Hex(),
			OneTimePub:     hex.EncodeToString(annc.OneTimePub.Bytes()),
		}
		if spend != nil {
			derived, err := stealth.DeriveSpendKey(spend, viewPriv, annc.EphemeralPub)
			if err != nil {
				return nil, fmt.Errorf("announcement %d: derive: %v", i, err)
			}
			priv := derived.PrivateKeyBytes()
			match.SpendKey = hex.EncodeToString(priv[:])
		}
		out.Matches = append(out.Matches, match)
	}
	return out, nil
}

func loadStealthKeyfile(path string) (*stealth.KeyPair, []byte) {
	raw, err := os.ReadFile(path)
	if err != nil {
		utils.Fatalf("Failed to read keyfile: %v", err)
	}
	var kf stealthKeyfile
	if err := json.Unmarshal(raw, &kf); err != nil {
		utils.Fatalf("Failed to parse keyfile: %v", err)
	}
	spendPriv := mustHex("spendPriv", kf.SpendPriv)
	viewPriv := mustHex("viewPriv", kf.ViewPriv)
	spend, err := stealth.KeyPairFromPrivateKeyBytes(spendPriv)
	if err != nil {
		utils.Fatalf("Invalid spend key in keyfile: %v", err)
	}
	return spend, viewPriv
}

func parsePublicKeyHex(s string) (stealth.PublicKey, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return stealth.PublicKey{}, err
	}
	return stealth.PublicKeyFromBytes(raw)
}

func mustHex(name, s string) []byte {
	raw, err := hex.DecodeString(s)
	if err != nil {
		utils.Fatalf("Invalid hex in %s: %v", name, err)
	}
	return raw
}
