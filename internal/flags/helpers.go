// Package flags holds the shared command line setup for gstyx tools.
package flags

import (
	"github.com/urfave/cli/v2"

	"github.com/styx-network/gstyx/params"
)

// NewApp creates an app with sane defaults.
func NewApp(gitCommit, gitDate, usage string) *cli.App {
	app := cli.NewApp()
	app.EnableBashCompletion = true
	app.Version = params.VersionWithCommit(gitCommit, gitDate)
	app.Usage = usage
	app.Copyright = "Copyright 2025 The gstyx Authors"
	return app
}
