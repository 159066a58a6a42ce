/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/ssargent/pitkit/pkg/pit"
)

// repackCmd represents the repack command
var repackCmd = &cobra.Command{
	Use:   "repack <in> <out>",
	Short: "Unpack a PIT file and write it back out",
	Long: `Unpack a PIT file and pack it again into a new file.

The output holds exactly the header and entries, dropping any trailing
padding, unless --pad is given, in which case it is zero-padded to a whole
number of 4096-byte blocks as expected by download mode.

Examples:
  pit repack dumped.pit clean.pit
  pit repack dumped.pit upload.pit --pad`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		pad, _ := cmd.Flags().GetBool("pad")

		t, err := readTableFile(args[0])
		if err != nil {
			return err
		}

		n, err := writeTableFile(args[1], t, pad)
		if err != nil {
			return err
		}

		logWith(cmd).Info("repacked PIT", "in", args[0], "out", args[1], "bytes", n)
		cmd.Printf("Wrote %d bytes (%d entries) to %s\n", n, t.EntryCount(), args[1])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(repackCmd)
	repackCmd.Flags().Bool("pad", false, "Pad the output to a multiple of 4096 bytes")
}

// writeTableFile packs t into path and returns the number of bytes written
func writeTableFile(path string, t *pit.Table, pad bool) (int, error) {
	data := t.Bytes()
	if pad {
		data = t.PackPadded()
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return 0, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return len(data), nil
}
