package main

import "breachcheck-cli/cmd"

func main() {
	cmd.Execute()
}
