package model

import "strings"

// Access defines the access semantics of a register.
type Access string

const (
	// ReadOnly registers have no setter surface.
	ReadOnly Access = "RO"
	// WriteOnly registers must not be read, reads are undefined by contract.
	WriteOnly Access = "WO"
	// ReadWrite registers get a full read/write accessor.
	ReadWrite Access = "RW"
	// WriteOneToClear registers clear a bit in hardware when 1 is written
	// to it, writing 0 has no effect.
	WriteOneToClear Access = "W1C"
	// ReadWriteOneToClear registers are readable and clear on writing 1.
	ReadWriteOneToClear Access = "RW1C"
)

// AccessFromString maps SVD access and modifiedWriteValues descriptions to
// an access kind.
func AccessFromString(access, modifiedWriteValues string) (Access, bool) {
	oneToClear := strings.EqualFold(modifiedWriteValues, "oneToClear")

	switch strings.ToLower(access) {
	case "read-only":
		return ReadOnly, true
	case "write-only", "writeonce":
		if oneToClear {
			return WriteOneToClear, true
		}
		return WriteOnly, true
	case "", "read-write", "read-writeonce":
		if oneToClear {
			return ReadWriteOneToClear, true
		}
		return ReadWrite, true
	default:
		return "", false
	}
}

// Readable returns whether reads of the register are defined.
func (a Access) Readable() bool {
	return a == ReadOnly || a == ReadWrite || a == ReadWriteOneToClear
}

// Writable returns whether the register has a write surface.
func (a Access) Writable() bool {
	return a != ReadOnly
}

// ClearOnWriteOne returns whether writing 1 to a bit clears it in hardware.
// Registers with this semantic must never be written using a naive
// read-modify-write sequence as the write-back would clear unrelated bits.
func (a Access) ClearOnWriteOne() bool {
	return a == WriteOneToClear || a == ReadWriteOneToClear
}
