package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/styx-network/gstyx/internal/flags"
)

const (
	defaultKeyfileName = "stealthkey.json"
)

// Git SHA1 commit hash of the release (set via linker flags)
var gitCommit = ""
var gitDate = ""

var app *cli.App

func init() {
	app = flags.NewApp(gitCommit, gitDate, "a styx stealth key and payload tool")
	app.Commands = []*cli.Command{
		commandGenerate,
		commandInspect,
		commandSchema,
		commandScan,
		commandAirdrop,
		commandMnemonic,
	}
}

// Commonly used command line flags.
var (
	passphraseFlag = &cli.StringFlag{
		Name:     "passwordfile",
		Usage:    "the file that contains the passphrase for the mnemonic",
		Category: flags.KeyCategory,
	}
	jsonFlag = &cli.BoolFlag{
		Name:     "json",
		Usage:    "output JSON instead of human-readable format",
		Category: flags.OutputCategory,
	}
)

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
