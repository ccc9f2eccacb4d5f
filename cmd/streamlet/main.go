package main

import (
	"github.com/onflow/streamlet/cmd/streamlet/cmd"
)

func main() {
	cmd.Execute()
}
