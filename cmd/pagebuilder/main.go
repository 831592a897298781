package main

import "github.com/emrgen/pagebuilder/cmd"

func main() {
	cmd.Execute()
}
