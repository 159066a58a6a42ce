/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/spf13/cobra"
)

// printCmd represents the print command
var printCmd = &cobra.Command{
	Use:   "print <file>",
	Short: "Print the contents of a PIT file",
	Long: `Print the header and every partition entry of a PIT file.

Examples:
  pit print device.pit
  pit print device.pit --output=json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := readTableFile(args[0])
		if err != nil {
			return err
		}
		return outputTable(cmd.OutOrStdout(), t, appConfig.Output.Format)
	},
}

func init() {
	rootCmd.AddCommand(printCmd)
}
