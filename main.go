package main

import "github/chapool/go-ethcore/cmd"

func main() {
	cmd.Execute()
}
