package main

import (
	"os"

	"github.com/naevtamarkus/homeassistant-statistics-cli/cli"
)

var (
	sha1ver   string // sha1 revision used to build the program
	buildTime string // when the executable was built
	version   string // custom version number of the program
)

func main() {
	cli.SetVersionInfo(version, buildTime, sha1ver)
	os.Exit(cli.Execute())
}
