package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kanelabs/bocker/pkg/commit"
)

var commitCmd = &cobra.Command{
	Use:   "commit <container> <image>",
	Short: "Promote a container's volume to an image identity",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		containerID, imageID := args[0], args[1]
		err := withStoreLock(func() error {
			return commit.Commit(volumes, cgroupMgr, containerID, imageID)
		})
		if err != nil {
			return err
		}
		fmt.Printf("Created: %s\n", imageID)
		return nil
	},
}
