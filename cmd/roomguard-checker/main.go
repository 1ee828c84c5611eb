package main

import (
	"github.com/roomguard/roomguard/cmd/roomguard-checker/cmd"
)

func main() {
	cmd.Execute()
}
