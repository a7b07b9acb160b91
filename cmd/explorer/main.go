package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Kiran-230202/Otelier-Explorer/cmd/explorer/commands"
)

func main() {
	root := &cobra.Command{
		Use:   "explorer",
		Short: "Otelier Explorer – hotel search and comparison from the terminal",
		Long:  "Searches hotel inventory for a city, prices offers for the selected dates and prints compact JSON ready for scripting.",
	}

	root.PersistentFlags().String("mode", "", "Offer source mode: mock or live (default from config/env)")

	root.AddCommand(commands.SearchCmd())
	root.AddCommand(commands.DoctorCmd())
	root.AddCommand(versionCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print explorer version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("explorer v0.1.0")
		},
	}
}
