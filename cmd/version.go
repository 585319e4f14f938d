package main

import (
	"os"

	"github.com/0xPolygon/lanebridge"
	"github.com/urfave/cli/v2"
)

func versionCmd(*cli.Context) error {
	lanebridge.PrintVersion(os.Stdout)
	return nil
}
