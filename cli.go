//go:build cli
// +build cli

package main

import (
	"sareeadmin.GO/cmd"
	"sareeadmin.GO/config"
)

func main() {
	config.LoadEnv()
	cmd.Execute()
}
