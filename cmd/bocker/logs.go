package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kanelabs/bocker/pkg/inspect"
)

var logsCmd = &cobra.Command{
	Use:   "logs <container>",
	Short: "Show a container's captured stdout/stderr",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := inspect.Logs(volumes, args[0])
		if err != nil {
			return err
		}
		fmt.Print(string(data))
		return nil
	},
}
