package candb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestBitPositionsLittleEndianContiguous(t *testing.T) {
	positions := bitPositions(7, 12, LittleEndian)
	assert.Equal(t, []int{7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18}, positions)
}

func TestBitPositionsBigEndianWalk(t *testing.T) {
	// Matches spec.md's worked example: start=7, length=12, big_endian
	// spans all of byte 0 and the top nibble of byte 1.
	positions := bitPositions(7, 12, BigEndian)
	assert.Equal(t, []int{12, 13, 14, 15, 0, 1, 2, 3, 4, 5, 6, 7}, positions)
}

func TestBitPositionsBigEndianSingleBit(t *testing.T) {
	assert.Equal(t, []int{7}, bitPositions(7, 1, BigEndian))
}

func TestBitPositionsBigEndianByteBoundaryWrap(t *testing.T) {
	// start=0 is the LSB of byte 0 in DBC's Motorola numbering; the next
	// bit after it wraps up into the following byte's MSB.
	positions := bitPositions(0, 2, BigEndian)
	assert.Equal(t, []int{15, 0}, positions)
}

func TestPackUnpackRoundTripLittleEndian(t *testing.T) {
	payload := make([]byte, 8)
	packBits(payload, 20, 18, LittleEndian, 0x3ABCD)
	got := unpackBits(payload, 20, 18, LittleEndian)
	assert.Equal(t, uint64(0x3ABCD)&maskToLength(18), got)
}

func TestPackUnpackRoundTripBigEndian(t *testing.T) {
	payload := make([]byte, 8)
	packBits(payload, 23, 20, BigEndian, 0xABCDE)
	got := unpackBits(payload, 23, 20, BigEndian)
	assert.Equal(t, uint64(0xABCDE)&maskToLength(20), got)
}

func TestBigLittleEndianParityDiffer(t *testing.T) {
	// spec.md §8 scenario 6: identical (start, length) packed in each
	// byte order must differ in the resulting bytes for a value that
	// isn't endian-symmetric.
	const start, length = 7, 12
	const raw uint64 = 0x0ab

	le := make([]byte, 8)
	packBits(le, start, length, LittleEndian, raw)

	be := make([]byte, 8)
	packBits(be, start, length, BigEndian, raw)

	assert.NotEqual(t, le, be)
	assert.Equal(t, raw, unpackBits(le, start, length, LittleEndian))
	assert.Equal(t, raw, unpackBits(be, start, length, BigEndian))
}

func TestMaskToLength(t *testing.T) {
	assert.Equal(t, uint64(0), maskToLength(0))
	assert.Equal(t, uint64(1), maskToLength(1))
	assert.Equal(t, uint64(0xFF), maskToLength(8))
	assert.Equal(t, ^uint64(0), maskToLength(64))
}

func TestSignExtend(t *testing.T) {
	assert.Equal(t, int64(-1), signExtend(0xFF, 8))
	assert.Equal(t, int64(127), signExtend(0x7F, 8))
	assert.Equal(t, int64(-2048), signExtend(0x800, 12))
	assert.Equal(t, int64(2047), signExtend(0x7FF, 12))
}

// motorolaStartForRank inverts the Motorola walk order back to a start
// bit: nextMotorolaBit always advances a start's rank, (start/8)*8 +
// (7 - start%8), by exactly 1 (within a byte the bit number decreases,
// i.e. rank increases; at a byte's bit 0 it wraps to the next byte's
// bit 7, which is also rank+1). Since that mapping is a bijection on
// 0..63, a start is valid for a given length under big-endian layout
// iff its rank plus length-1 stays within 0..63.
func motorolaStartForRank(rank int) int {
	byteIdx := rank / 8
	off := 7 - rank%8
	return byteIdx*8 + off
}

// drawValidStart picks a start bit for which a signal of the given
// length, laid out in order, fits entirely within an 8-byte payload
// (spec.md invariant 1: start_bit + length <= 64 after the bit walk).
func drawValidStart(t *rapid.T, length int, order ByteOrder) int {
	if order == LittleEndian {
		return rapid.IntRange(0, 64-length).Draw(t, "start")
	}
	rank := rapid.IntRange(0, 64-length).Draw(t, "startRank")
	return motorolaStartForRank(rank)
}

// Property: for any bit offset/length/byte-order, packing a raw value and
// unpacking it again recovers exactly the low `length` bits of that value.
// This is the invariant spec.md §4.1 calls
// "the single most error-prone part of any DBC implementation".
func TestBitPackUnpackRoundTripProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		length := rapid.IntRange(1, 64).Draw(t, "length")
		order := LittleEndian
		if rapid.Bool().Draw(t, "bigEndian") {
			order = BigEndian
		}
		start := drawValidStart(t, length, order)
		raw := rapid.Uint64().Draw(t, "raw")

		payload := make([]byte, 8)
		packBits(payload, start, length, order, raw)
		got := unpackBits(payload, start, length, order)

		assert.Equal(t, raw&maskToLength(length), got)
	})
}

// Property: every bit position touched by a signal is unique within its
// own footprint (bitPositions never repeats a position for one signal).
func TestBitPositionsNoInternalDuplicates(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		length := rapid.IntRange(1, 64).Draw(t, "length")
		order := LittleEndian
		if rapid.Bool().Draw(t, "bigEndian") {
			order = BigEndian
		}
		start := drawValidStart(t, length, order)
		positions := bitPositions(start, length, order)
		seen := make(map[int]bool, len(positions))
		for _, p := range positions {
			assert.Falsef(t, seen[p], "position %d repeated in footprint for start=%d length=%d order=%v", p, start, length, order)
			seen[p] = true
		}
	})
}
