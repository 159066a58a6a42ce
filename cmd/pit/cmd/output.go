package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/ssargent/pitkit/pkg/api"
	"github.com/ssargent/pitkit/pkg/archive"
	"github.com/ssargent/pitkit/pkg/pit"
)

// writeJSON writes v as indented JSON
func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// outputTable displays a whole table
func outputTable(w io.Writer, t *pit.Table, format string) error {
	if format == "json" {
		return writeJSON(w, t)
	}
	return outputTableText(w, t)
}

// outputTableText displays the header followed by one row per entry
func outputTableText(w io.Writer, t *pit.Table) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Entry Count:\t%d\n", t.EntryCount())
	fmt.Fprintf(tw, "COM_TAR2:\t%s\n", orDash(t.ComTar2()))
	fmt.Fprintf(tw, "CPU/BL ID:\t%s\n", orDash(t.CPUBootloaderID()))
	fmt.Fprintf(tw, "LU Count:\t%d\n", t.LUCount)
	fmt.Fprintf(tw, "Size:\t%d bytes (%d padded)\n", t.DataSize(), t.PaddedSize())
	if err := tw.Flush(); err != nil {
		return err
	}

	entries := t.Entries()
	if len(entries) == 0 {
		fmt.Fprintln(w, "\nNo entries")
		return nil
	}

	fmt.Fprintln(w)
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tNAME\tID\tBINARY\tDEVICE\tATTRIBUTES\tUPDATE\tBLOCK/OFFSET\tBLOCKS\tFILE OFFSET\tFILE SIZE\tFLASH FILE\tFOTA FILE")
	for i, e := range entries {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\t%s\t%s\t%d\t%d\t%d\t%d\t%s\t%s\n",
			i,
			orDash(e.PartitionName()),
			e.Identifier,
			e.BinaryType,
			e.DeviceType,
			e.Attributes,
			e.UpdateAttributes,
			e.BlockSizeOrOffset,
			e.BlockCount,
			e.FileOffset,
			e.FileSize,
			orDash(e.FlashFilename()),
			orDash(e.FotaFilename()))
	}
	return tw.Flush()
}

// outputEntry displays a single entry with its table index
func outputEntry(w io.Writer, index int, e *pit.Entry, format string) error {
	if format == "json" {
		return writeJSON(w, api.EntryResult{Index: index, Entry: e})
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Index:\t%d\n", index)
	fmt.Fprintf(tw, "Partition Name:\t%s\n", orDash(e.PartitionName()))
	fmt.Fprintf(tw, "Identifier:\t%d\n", e.Identifier)
	fmt.Fprintf(tw, "Binary Type:\t%d (%s)\n", uint32(e.BinaryType), e.BinaryType)
	fmt.Fprintf(tw, "Device Type:\t%d (%s)\n", uint32(e.DeviceType), e.DeviceType)
	fmt.Fprintf(tw, "Attributes:\t%d (%s)\n", uint32(e.Attributes), e.Attributes)
	fmt.Fprintf(tw, "Update Attributes:\t%d (%s)\n", uint32(e.UpdateAttributes), e.UpdateAttributes)
	fmt.Fprintf(tw, "Block Size/Offset:\t%d\n", e.BlockSizeOrOffset)
	fmt.Fprintf(tw, "Block Count:\t%d\n", e.BlockCount)
	fmt.Fprintf(tw, "File Offset:\t%d\n", e.FileOffset)
	fmt.Fprintf(tw, "File Size:\t%d\n", e.FileSize)
	fmt.Fprintf(tw, "Flash Filename:\t%s\n", orDash(e.FlashFilename()))
	fmt.Fprintf(tw, "FOTA Filename:\t%s\n", orDash(e.FotaFilename()))
	return tw.Flush()
}

// outputDifferences displays the result of comparing two tables
func outputDifferences(w io.Writer, diffs []pit.Difference, format string) error {
	if format == "json" {
		if diffs == nil {
			diffs = []pit.Difference{}
		}
		return writeJSON(w, api.DiffResult{Matches: len(diffs) == 0, Differences: diffs})
	}

	if len(diffs) == 0 {
		fmt.Fprintln(w, "Tables match")
		return nil
	}
	for _, d := range diffs {
		fmt.Fprintln(w, d)
	}
	fmt.Fprintf(w, "%d difference(s)\n", len(diffs))
	return nil
}

// outputSnapshots displays the archive listing
func outputSnapshots(w io.Writer, snapshots []archive.Snapshot, format string) error {
	if format == "json" {
		if snapshots == nil {
			snapshots = []archive.Snapshot{}
		}
		return writeJSON(w, snapshots)
	}

	if len(snapshots) == 0 {
		fmt.Fprintln(w, "No snapshots found")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tENTRIES\tSIZE")
	for _, s := range snapshots {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\n",
			s.ID,
			s.Created.Local().Format(time.RFC3339),
			s.Entries,
			s.Size)
	}
	return tw.Flush()
}
