package core

import (
	"encoding/binary"
	"fmt"

	"github.com/go-crypt/x/blake2b"
)

// RecordNumericID derives a deterministic 64-bit vector record ID from the
// chunk's source coordinates using BLAKE2b hashing. Re-ingesting the same
// file overwrites the same records instead of accumulating duplicates.
func RecordNumericID(title string, start, end int) uint64 {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	fmt.Fprintf(h, "%s:%d:%d", title, start, end)
	sum := h.Sum(nil)
	return binary.LittleEndian.Uint64(sum)
}

// RecordID is the string form of RecordNumericID, used by backends with
// string-typed record IDs.
func RecordID(title string, start, end int) string {
	return fmt.Sprintf("id-%d", RecordNumericID(title, start, end))
}
