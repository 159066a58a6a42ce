/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"

	"github.com/spf13/cobra"
	"github.com/ssargent/pitkit/pkg/pit"
)

var errTablesDiffer = errors.New("tables differ")

// diffCmd represents the diff command
var diffCmd = &cobra.Command{
	Use:   "diff <a> <b>",
	Short: "Compare two PIT files",
	Long: `Compare two PIT files field by field. Entries are compared by position.

The command exits with a non-zero status when the tables differ, so it can be
used in scripts to check that a device layout has not changed.

Example:
  pit diff stock.pit dumped.pit`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := readTableFile(args[0])
		if err != nil {
			return err
		}
		b, err := readTableFile(args[1])
		if err != nil {
			return err
		}
		return compareTables(cmd, a, b)
	},
}

func init() {
	rootCmd.AddCommand(diffCmd)
}

func compareTables(cmd *cobra.Command, a, b *pit.Table) error {
	diffs := pit.Diff(a, b)
	if err := outputDifferences(cmd.OutOrStdout(), diffs, appConfig.Output.Format); err != nil {
		return err
	}
	if len(diffs) > 0 {
		logWith(cmd).Debug("tables differ", "differences", len(diffs))
		return errTablesDiffer
	}
	return nil
}
