//go:build mage

package main

import (
	"os"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Convert builds the CLI and converts the participation export in the
// current directory. VOTER_HISTORY_SOURCE and VOTER_HISTORY_OUTPUT
// override the default paths.
func Convert() error {
	mg.Deps(Build)
	return sh.RunV("./"+binDir+"/"+binName, "convert")
}

// Sample converts only the first data page and prints the decoded records.
func Sample() error {
	mg.Deps(Build)
	env := map[string]string{}
	if out := os.Getenv("VOTER_HISTORY_OUTPUT"); out == "" {
		env["VOTER_HISTORY_OUTPUT"] = "sample.csv"
	}
	return sh.RunWithV(env, "./"+binDir+"/"+binName, "convert", "--sample", "--preview")
}
