//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Builds the engine and runs it with assets/config.toml.
func (Run) Engine() error {
	mg.Deps(Build.Engine)
	fmt.Println("Run engine...")
	if _, err := executeCmd(binary, withArgs("-config", "assets/config.toml"), withStream()); err != nil {
		return err
	}
	return nil
}
