package main

import (
	"crypto/hmac"
	"crypto/sha512"
	"fmt"

	"github.com/tyler-smith/go-bip39"
	"github.com/urfave/cli/v2"

	"github.com/styx-network/gstyx/internal/flags"
	"github.com/styx-network/gstyx/stealth"
)

const (
	defaultMnemonicBits = 128

	// stealthDeriveDomain tags the HMAC that expands a BIP39 seed into
	// the spend and view key seeds.
	stealthDeriveDomain = "STYX_STEALTH_DERIVE"
)

var mnemonicBitsFlag = &cli.IntFlag{
	Name:     "mnemonic-bits",
	Usage:    "Entropy bits for generated mnemonic (128,160,192,224,256)",
	Value:    defaultMnemonicBits,
	Category: flags.KeyCategory,
}

func generateMnemonic(bits int) (string, error) {
	if err := validateMnemonicBits(bits); err != nil {
		return "", err
	}
	entropy, err := bip39.NewEntropy(bits)
	if err != nil {
		return "", err
	}
	return bip39.NewMnemonic(entropy)
}

func validateMnemonicBits(bits int) error {
	switch bits {
	case 128, 160, 192, 224, 256:
		return nil
	default:
		return fmt.Errorf("invalid mnemonic bits %d (allowed: 128,160,192,224,256)", bits)
	}
}

// deriveStealthSeeds expands the BIP39 seed with a domain-tagged
// HMAC-SHA512 and splits the digest into the spend and view seeds.
func deriveStealthSeeds(mnemonic, passphrase string) (spendSeed, viewSeed [32]byte, err error) {
	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, passphrase)
	if err != nil {
		return spendSeed, viewSeed, err
	}
	mac := hmac.New(sha512.New, []byte(stealthDeriveDomain))
	mac.Write(seed)
	digest := mac.Sum(nil)
	copy(spendSeed[:], digest[:32])
	copy(viewSeed[:], digest[32:])
	return spendSeed, viewSeed, nil
}

func deriveStealthFromMnemonic(mnemonic, passphrase string) (spend, view *stealth.KeyPair, err error) {
	spendSeed, viewSeed, err := deriveStealthSeeds(mnemonic, passphrase)
	if err != nil {
		return nil, nil, err
	}
	if spend, err = stealth.KeyPairFromSeed(spendSeed); err != nil {
		return nil, nil, err
	}
	if view, err = stealth.KeyPairFromSeed(viewSeed); err != nil {
		return nil, nil, err
	}
	return spend, view, nil
}

type outputMnemonic struct {
	Mnemonic string `json:"mnemonic"`
}

var commandMnemonic = &cli.Command{
	Name:  "mnemonic",
	Usage: "generate a new BIP39 mnemonic",
	Description: `
Generate a fresh BIP39 mnemonic.

The mnemonic can later be fed to "generate --mnemonic" to derive the
same stealth meta-address on any machine.`,
	Flags: []cli.Flag{
		jsonFlag,
		mnemonicBitsFlag,
	},
	Action: func(ctx *cli.Context) error {
		mnemonic, err := generateMnemonic(ctx.Int(mnemonicBitsFlag.Name))
		if err != nil {
			return err
		}
		if ctx.Bool(jsonFlag.Name) {
			mustPrintJSON(outputMnemonic{Mnemonic: mnemonic})
		} else {
			fmt.Println("Mnemonic:", mnemonic)
		}
		return nil
	},
}
