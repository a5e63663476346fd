package main

import (
	"strings"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:                "run [-i] <image> <cmd...>",
	Short:              "Launch a sandboxed container from an image",
	Args:               cobra.MinimumNArgs(2),
	DisableFlagParsing: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		var interactive bool
		if args[0] == "-i" || args[0] == "--interactive" {
			interactive = true
			args = args[1:]
		}
		if len(args) < 2 {
			return cmd.Usage()
		}
		imageID := args[0]
		command := strings.Join(args[1:], " ")

		return withStoreLock(func() error {
			_, runErr := launcher.Run(imageID, command, interactive)
			return runErr
		})
	},
}
