// main.go
//
// Entry point; the CLI lives in cmd/root.go

package main

import (
	"github.com/xaios/ossim/cmd"
)

func main() {
	cmd.Execute()
}
