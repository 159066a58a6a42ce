package pit

import (
	"errors"
	"fmt"
)

var (
	// ErrBadMagic is matched by errors returned when a buffer does not start with FileIdentifier.
	ErrBadMagic = errors.New("pit: bad file identifier")

	// ErrTruncated is matched by errors returned when a buffer is too short for the table it describes.
	ErrTruncated = errors.New("pit: truncated data")

	// ErrIndexOutOfRange is matched by errors returned for an entry index outside the table.
	ErrIndexOutOfRange = errors.New("pit: entry index out of range")
)

// MagicMismatchError indicates that the buffer does not hold a PIT.
type MagicMismatchError struct {
	Got uint32
}

func (e *MagicMismatchError) Error() string {
	return fmt.Sprintf("pit: bad file identifier: expected 0x%08X, got 0x%08X", FileIdentifier, e.Got)
}

// Is reports whether target is ErrBadMagic.
func (e *MagicMismatchError) Is(target error) bool {
	return target == ErrBadMagic
}

// TruncatedError indicates that a buffer is shorter than the layout requires.
type TruncatedError struct {
	// Need is the number of bytes the layout requires
	Need int

	// Have is the number of bytes supplied
	Have int
}

func (e *TruncatedError) Error() string {
	return fmt.Sprintf("pit: truncated data: need %d bytes, have %d", e.Need, e.Have)
}

// Is reports whether target is ErrTruncated.
func (e *TruncatedError) Is(target error) bool {
	return target == ErrTruncated
}

// IndexOutOfRangeError indicates an entry index outside [0, Count).
type IndexOutOfRangeError struct {
	Index int
	Count int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("pit: entry index %d out of range: table has %d entries", e.Index, e.Count)
}

// Is reports whether target is ErrIndexOutOfRange.
func (e *IndexOutOfRangeError) Is(target error) bool {
	return target == ErrIndexOutOfRange
}
