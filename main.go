// Keyframe - undoable stage editing for animation scenes.
package main

import (
	"os"

	"github.com/keyframe-studio/keyframe/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
