package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/styx-network/gstyx/cmd/utils"
	"github.com/styx-network/gstyx/internal/flags"
	"github.com/styx-network/gstyx/stealth"
)

// stealthKeyfile is the on-disk form of a stealth key pair. The file
// holds raw private scalars, so it must be kept offline.
type stealthKeyfile struct {
	ID          string `json:"id"`
	MetaAddress string `json:"metaAddress"`
	SpendPriv   string `json:"spendPriv"`
	ViewPriv    string `json:"viewPriv"`
}

type outputGenerate struct {
	MetaAddress string `json:"metaAddress"`
	Keyfile     string `json:"keyfile"`
	Mnemonic    string `json:"mnemonic,omitempty"`
}

var (
	mnemonicGenerateFlag = &cli.BoolFlag{
		Name:     "mnemonic-generate",
		Usage:    "Generate a BIP39 mnemonic and derive the key pair from it",
		Category: flags.KeyCategory,
	}
	mnemonicFlag = &cli.StringFlag{
		Name:     "mnemonic",
		Usage:    "Use existing BIP39 mnemonic to derive the key pair",
		Category: flags.KeyCategory,
	}
	mnemonicPassphraseFlag = &cli.StringFlag{
		Name:     "mnemonic-passphrase",
		Usage:    "Optional BIP39 passphrase for mnemonic-to-seed",
		Category: flags.KeyCategory,
	}
	promptPassphraseFlag = &cli.BoolFlag{
		Name:     "prompt-passphrase",
		Usage:    "Prompt for the BIP39 passphrase instead of passing it on the command line",
		Category: flags.KeyCategory,
	}
)

var commandGenerate = &cli.Command{
	Name:      "generate",
	Usage:     "generate a new stealth meta-address",
	ArgsUsage: "[ <keyfile> ]",
	Description: `
Generate a new stealth key pair and write it to a keyfile.

By default the spend and view keys are drawn from the system entropy
source. With --mnemonic or --mnemonic-generate they are derived
deterministically from a BIP39 mnemonic, so the meta-address can be
recovered from the words alone.`,
	Flags: []cli.Flag{
		passphraseFlag,
		jsonFlag,
		mnemonicGenerateFlag,
		mnemonicFlag,
		mnemonicPassphraseFlag,
		promptPassphraseFlag,
		mnemonicBitsFlag,
	},
	Action: func(ctx *cli.Context) error {
		// Check if keyfile path given and make sure it doesn't already exist.
		keyfilepath := ctx.Args().First()
		if keyfilepath == "" {
			keyfilepath = defaultKeyfileName
		}
		if _, err := os.Stat(keyfilepath); err == nil {
			utils.Fatalf("Keyfile already exists at %s.", keyfilepath)
		} else if !os.IsNotExist(err) {
			utils.Fatalf("Error checking if keyfile exists: %v", err)
		}

		var (
			spend, view    *stealth.KeyPair
			err            error
			mnemonicInput  = strings.TrimSpace(ctx.String(mnemonicFlag.Name))
			mnemonicOutput string
		)
		if mnemonicInput != "" || ctx.Bool(mnemonicGenerateFlag.Name) {
			if mnemonicInput == "" {
				mnemonicInput, err = generateMnemonic(ctx.Int(mnemonicBitsFlag.Name))
				if err != nil {
					utils.Fatalf("Failed to generate mnemonic: %v", err)
				}
				mnemonicOutput = mnemonicInput
			}
			passphrase := ctx.String(mnemonicPassphraseFlag.Name)
			if ctx.Bool(promptPassphraseFlag.Name) {
				passphrase = getPassphrase(ctx, true)
			}
			spend, view, err = deriveStealthFromMnemonic(mnemonicInput, passphrase)
			if err != nil {
				utils.Fatalf("Failed to derive keys from mnemonic: %v", err)
			}
		} else {
			if spend, err = stealth.NewKeyPair(); err != nil {
				utils.Fatalf("Failed to generate spend key: %v", err)
			}
			if view, err = stealth.NewKeyPair(); err != nil {
				utils.Fatalf("Failed to generate view key: %v", err)
			}
		}

		// Tag the keyfile with a random UUID.
		id, err := uuid.NewRandom()
		if err != nil {
			utils.Fatalf("Failed to generate random uuid: %v", err)
		}

		meta := stealth.NewMetaAddress(spend, view)
		spendPriv := spend.PrivateKeyBytes()
		viewPriv := view.PrivateKeyBytes()
		keyjson, err := json.MarshalIndent(stealthKeyfile{
			ID:          id.String(),
			MetaAddress: meta.String(),
			SpendPriv:   hex.EncodeToString(spendPriv[:]),
			ViewPriv:    hex.EncodeToString(viewPriv[:]),
		}, "", "  ")
		if err != nil {
			utils.Fatalf("Failed to marshal keyfile: %v", err)
		}

		// Store the file to disk.
		if err := os.MkdirAll(filepath.Dir(keyfilepath), 0700); err != nil {
			utils.Fatalf("Could not create directory %s", filepath.Dir(keyfilepath))
		}
		if err := os.WriteFile(keyfilepath, keyjson, 0600); err != nil {
			utils.Fatalf("Failed to write keyfile to %s: %v", keyfilepath, err)
		}

		// Output some information.
		out := outputGenerate{
			MetaAddress: meta.String(),
			Keyfile:     keyfilepath,
			Mnemonic:    mnemonicOutput,
		}
		if ctx.Bool(jsonFlag.Name) {
			mustPrintJSON(out)
		} else {
			fmt.Println("Meta address:", out.MetaAddress)
			fmt.Println("Keyfile:     ", out.Keyfile)
			if out.Mnemonic != "" {
				fmt.Println("Mnemonic:    ", out.Mnemonic)
			}
		}
		return nil
	},
}
