package main

import "github.com/xvierd/lofi-cli/cmd"

func main() {
	cmd.Execute()
}
