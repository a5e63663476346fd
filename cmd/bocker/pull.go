package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var pullCmd = &cobra.Command{
	Use:   "pull <name> <tag>",
	Short: "Fetch and register an image",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var id string
		err := withStoreLock(func() error {
			var pullErr error
			id, pullErr = acquirer.Pull(args[0], args[1])
			return pullErr
		})
		if err != nil {
			return err
		}
		fmt.Printf("Created: %s\n", id)
		return nil
	},
}

var initCmd = &cobra.Command{
	Use:   "init <dir>",
	Short: "Import a directory as an image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var id string
		err := withStoreLock(func() error {
			var importErr error
			id, importErr = acquirer.Import(args[0])
			return importErr
		})
		if err != nil {
			return err
		}
		fmt.Printf("Created: %s\n", id)
		return nil
	},
}
