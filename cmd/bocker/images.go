package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kanelabs/bocker/pkg/inspect"
)

var imagesCmd = &cobra.Command{
	Use:   "images",
	Short: "List images",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		images, err := inspect.ListImages(volumes)
		if err != nil {
			return err
		}
		fmt.Println("IMAGE_ID\t\tSOURCE")
		for _, img := range images {
			fmt.Printf("%s\t\t%s\n", img.ID, img.Source)
		}
		return nil
	},
}

var psCmd = &cobra.Command{
	Use:   "ps",
	Short: "List containers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		containers, err := inspect.ListContainers(volumes)
		if err != nil {
			return err
		}
		fmt.Println("CONTAINER_ID\t\tCOMMAND")
		for _, c := range containers {
			fmt.Printf("%s\t\t%s\n", c.ID, c.Command)
		}
		return nil
	},
}
