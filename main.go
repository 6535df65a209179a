package main

import "github.com/mrlokans/bookstore/internal/cli"

// Version information - set at build time via ldflags
var Version = "dev"

func main() {
	cli.SetVersion(Version)
	cli.Execute()
}
