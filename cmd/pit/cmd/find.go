/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/ssargent/pitkit/pkg/pit"
)

var errNoMatch = errors.New("no flashable partition matches")

// findCmd represents the find command
var findCmd = &cobra.Command{
	Use:   "find <file>",
	Short: "Find a flashable partition by name or identifier",
	Long: `Look up the first flashable partition in a PIT file whose name or
identifier matches. Entries without the write attribute are skipped.

The command exits with a non-zero status when nothing matches.

Examples:
  pit find device.pit --name=BOOT
  pit find device.pit --id=0x14`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		id, _ := cmd.Flags().GetString("id")

		t, err := readTableFile(args[0])
		if err != nil {
			return err
		}

		index, entry, err := findEntry(t, name, id)
		if err != nil {
			return err
		}
		return outputEntry(cmd.OutOrStdout(), index, entry, appConfig.Output.Format)
	},
}

func init() {
	rootCmd.AddCommand(findCmd)
	findCmd.Flags().String("name", "", "Partition name to look up")
	findCmd.Flags().String("id", "", "Partition identifier to look up (decimal or 0x hex)")
	findCmd.MarkFlagsMutuallyExclusive("name", "id")
	findCmd.MarkFlagsOneRequired("name", "id")
}

// findEntry looks up a flashable entry by name, or by id when name is empty.
// It returns the entry together with its index in t.
func findEntry(t *pit.Table, name, id string) (int, *pit.Entry, error) {
	if (name == "") == (id == "") {
		return 0, nil, fmt.Errorf("exactly one of --name or --id is required")
	}

	var (
		entry *pit.Entry
		found bool
	)
	if name != "" {
		entry, found = t.FindByName(name)
	} else {
		parsed, err := strconv.ParseUint(id, 0, 32)
		if err != nil {
			return 0, nil, fmt.Errorf("invalid identifier %q: %w", id, err)
		}
		entry, found = t.FindByID(uint32(parsed))
	}
	if !found {
		return 0, nil, errNoMatch
	}

	for i, e := range t.Entries() {
		if e == entry {
			return i, entry, nil
		}
	}
	return 0, nil, errNoMatch
}
