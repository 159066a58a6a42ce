package pit_test

import (
	"errors"
	"fmt"
	"log"

	"github.com/ssargent/pitkit/pkg/pit"
)

// ExampleUnpack builds a table, packs it and reads it back.
func ExampleUnpack() {
	table := pit.NewTable()
	table.SetComTar2("BL")
	table.SetCPUBootloaderID("AP")
	table.LUCount = 1

	boot := pit.NewEntry()
	boot.Identifier = 7
	boot.Attributes = pit.AttributeWrite
	boot.SetPartitionName("BOOT")
	boot.SetFlashFilename("boot.img")
	table.AddEntry(boot)

	data := pit.Pack(table)
	fmt.Printf("Packed %d bytes\n", len(data))

	parsed, err := pit.Unpack(data)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Matches: %t\n", parsed.Matches(table))

	if e, ok := parsed.FindByID(7); ok {
		fmt.Printf("Partition 7: %s -> %s\n", e.PartitionName(), e.FlashFilename())
	}

	_, ok := parsed.FindByName("RECOVERY")
	fmt.Printf("RECOVERY found: %t\n", ok)

	// Output:
	// Packed 160 bytes
	// Matches: true
	// Partition 7: BOOT -> boot.img
	// RECOVERY found: false
}

// ExampleUnpack_errorHandling shows how unpack failures are reported.
func ExampleUnpack_errorHandling() {
	_, err := pit.Unpack([]byte("not a partition table"))
	fmt.Println(errors.Is(err, pit.ErrBadMagic))

	data := pit.Pack(pit.NewTable())
	data[4] = 2 // claim two entries
	_, err = pit.Unpack(data)
	fmt.Println(err)

	// Output:
	// true
	// pit: truncated data: need 292 bytes, have 28
}
