package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/kanelabs/bocker/pkg/sandbox"
)

var execCmd = &cobra.Command{
	Use:                "exec <container> <cmd...>",
	Short:              "Run a command inside an already-running container",
	Args:               cobra.MinimumNArgs(2),
	DisableFlagParsing: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		containerID := args[0]
		command := strings.Join(args[1:], " ")
		return sandbox.ExecInto(volumes, containerID, command)
	},
}
