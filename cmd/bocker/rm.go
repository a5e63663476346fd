package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kanelabs/bocker/pkg/log"
)

var rmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete an image or container",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		err := withStoreLock(func() error {
			if err := volumes.DeleteVolume(id); err != nil {
				return err
			}
			// Best-effort: rm never touches network state (spec.md
			// §9's "always delete on graceful exit" decision means
			// any veth/netns for id are already gone by the time a
			// container can be rm'd), only the cgroup, which may
			// have outlived the process it was created for.
			if err := cgroupMgr.Detach(id); err != nil {
				log.WithContainerID(id).Warn().Err(err).Msg("detach cgroup")
			}
			return nil
		})
		if err != nil {
			return err
		}
		fmt.Printf("Removed: %s\n", id)
		return nil
	},
}
