package main

import (
	"os"

	"github.com/flyinglimao/mcp-server-memos/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
