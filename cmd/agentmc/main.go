// Command agentmc runs a scripted multi-agent conversation from a scene
// file, streaming every turn to the terminal and letting a human player
// join in between turns.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
