// Package main is the entry point for the link2vid application.
package main

import (
	"github.com/link2vid/link2vid/cmd"
	"github.com/link2vid/link2vid/config"
	"github.com/link2vid/link2vid/log"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cmd.Execute()
}
