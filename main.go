package main

import "github.com/maximthomas/legacybridge/cmd"

func main() {
	cmd.Execute()
}
