package main

import (
	"github.com/tokenizedart/settlement/cmd/artmarket/cmd"
)

// Art Market CLI
//
func main() {
	cmd.Execute()
}
