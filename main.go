package main

import (
	"github.com/ESIPFed/eskg/cmd"

	// Register format plugins
	_ "github.com/ESIPFed/eskg/format/dif"
)

func main() {
	cmd.Execute()
}
