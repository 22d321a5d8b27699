package main

import "kbstudio/cmd/kbstudio-cli/cmd"

func main() {
	cmd.Execute()
}
