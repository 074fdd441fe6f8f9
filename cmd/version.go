/*
Copyright © 2025 DerithAI
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("wolfai version %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
