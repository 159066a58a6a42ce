/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/segmentio/ksuid"
	"github.com/spf13/cobra"
	"github.com/ssargent/pitkit/pkg/archive"
	"github.com/ssargent/pitkit/pkg/pit"
)

// archiveCmd represents the archive command
var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Manage archived PIT snapshots",
	Long: `Store PIT files as snapshots in the local archive and get them back later.

Snapshots live under <data-dir>/archive and are identified by a KSUID, so
listing them returns the oldest first.`,
}

// archivePutCmd represents the archive put command
var archivePutCmd = &cobra.Command{
	Use:   "put <file>",
	Short: "Archive a PIT file",
	Long: `Validate a PIT file and store it as a new snapshot.

Example:
  pit archive put device.pit`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withArchive(func(a *archive.Archive) error {
			id, t, err := archiveFile(a, args[0])
			if err != nil {
				return err
			}
			logWith(cmd).Info("archived PIT", "id", id.String(), "entries", t.EntryCount())
			cmd.Printf("Archived %s as %s (%d entries)\n", args[0], id, t.EntryCount())
			return nil
		})
	},
}

// archiveGetCmd represents the archive get command
var archiveGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show or export an archived snapshot",
	Long: `Print an archived snapshot, or write it to a file with --out.

Examples:
  pit archive get 2ZzD4pQ8n1vVbY2wKcJhXkq3Fh9
  pit archive get 2ZzD4pQ8n1vVbY2wKcJhXkq3Fh9 --out=device.pit --pad`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")
		pad, _ := cmd.Flags().GetBool("pad")

		id, err := ksuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid snapshot id %q: %w", args[0], err)
		}

		return withArchive(func(a *archive.Archive) error {
			t, err := a.Get(id)
			if err != nil {
				return err
			}
			if out == "" {
				return outputTable(cmd.OutOrStdout(), t, appConfig.Output.Format)
			}
			n, err := writeTableFile(out, t, pad)
			if err != nil {
				return err
			}
			cmd.Printf("Wrote %d bytes to %s\n", n, out)
			return nil
		})
	},
}

// archiveListCmd represents the archive list command
var archiveListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived snapshots",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withArchive(func(a *archive.Archive) error {
			snapshots, err := a.List()
			if err != nil {
				return err
			}
			return outputSnapshots(cmd.OutOrStdout(), snapshots, appConfig.Output.Format)
		})
	},
}

// archiveDeleteCmd represents the archive delete command
var archiveDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an archived snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := ksuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid snapshot id %q: %w", args[0], err)
		}

		return withArchive(func(a *archive.Archive) error {
			if err := a.Delete(id); err != nil {
				return err
			}
			cmd.Printf("Deleted snapshot %s\n", id)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(archiveCmd)
	archiveCmd.AddCommand(archivePutCmd, archiveGetCmd, archiveListCmd, archiveDeleteCmd)

	archiveGetCmd.Flags().String("out", "", "Write the packed snapshot to this file instead of printing it")
	archiveGetCmd.Flags().Bool("pad", false, "Pad the written file to a multiple of 4096 bytes")
}

// withArchive opens the configured archive for the duration of fn
func withArchive(fn func(a *archive.Archive) error) error {
	a, err := openArchive(appConfig)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

// archiveFile reads path and stores it as a new snapshot
func archiveFile(a *archive.Archive, path string) (ksuid.KSUID, *pit.Table, error) {
	t, err := readTableFile(path)
	if err != nil {
		return ksuid.Nil, nil, err
	}
	id, err := a.Put(t)
	if err != nil {
		return ksuid.Nil, nil, err
	}
	return id, t, nil
}
