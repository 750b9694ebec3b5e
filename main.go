// Copyright © 2025 The DWSLS authors

package main

import (
	"github.com/luthersystems/dwsls/cmd"

	_ "github.com/tliron/commonlog/simple"
)

func main() {
	cmd.Execute()
}
