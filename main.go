package main

import (
	"os"

	"jmoreau/txintel/cmd/categorize"
	"jmoreau/txintel/cmd/cleanup"
	"jmoreau/txintel/cmd/duplicates"
	"jmoreau/txintel/cmd/root"
)

func init() {
	root.Init()

	root.Cmd.AddCommand(categorize.Cmd)
	root.Cmd.AddCommand(duplicates.Cmd)
	root.Cmd.AddCommand(cleanup.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		root.Log.Error(err.Error())
		os.Exit(1)
	}
}
