// Package main is the entry point for the treedup CLI.
package main

import "treedup.dev/pkg/treedup/cmd"

func main() {
	cmd.Execute()
}
