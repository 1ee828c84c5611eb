package main

import (
	"github.com/roomguard/roomguard/cmd/roomguard/cmd"
)

func main() {
	cmd.Execute()
}
