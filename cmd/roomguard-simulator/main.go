package main

import (
	"github.com/roomguard/roomguard/cmd/roomguard-simulator/cmd"
)

func main() {
	cmd.Execute()
}
