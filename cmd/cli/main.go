package main

import "github.com/flame-analysis/cmd/cli/cmd"

func main() {
	cmd.Execute()
}
