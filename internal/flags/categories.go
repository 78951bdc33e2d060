package flags

import "github.com/urfave/cli/v2"

const (
	KeyCategory    = "STEALTH KEYS"
	WireCategory   = "WIRE FORMATS"
	OutputCategory = "OUTPUT"
	MiscCategory   = "MISC"
)

func init() {
	cli.HelpFlag.(*cli.BoolFlag).Category = MiscCategory
	cli.VersionFlag.(*cli.BoolFlag).Category = MiscCategory
}
