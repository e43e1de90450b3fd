package stego

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// AutoOffsetSentinel is the wire value that selects automatic placement.
const AutoOffsetSentinel uint64 = math.MaxInt64

// Offset is either an explicit byte position or a request to place/locate
// the payload automatically.
type Offset struct {
	value uint64
	auto  bool
}

func Auto() Offset {
	return Offset{auto: true}
}

func Explicit(n uint64) Offset {
	return Offset{value: n}
}

// OffsetFromWire maps AutoOffsetSentinel to Auto and any other value to an
// explicit offset.
func OffsetFromWire(n uint64) Offset {
	if n == AutoOffsetSentinel {
		return Auto()
	}
	return Explicit(n)
}

// ParseOffset accepts a decimal offset, "auto", or the empty string (auto).
func ParseOffset(s string) (Offset, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "auto") {
		return Auto(), nil
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return Offset{}, fmt.Errorf("invalid offset %q: must be a non-negative integer or \"auto\"", s)
	}
	return OffsetFromWire(n), nil
}

func (o Offset) IsAuto() bool {
	return o.auto
}

// Value returns the explicit offset; it is meaningless for Auto.
func (o Offset) Value() uint64 {
	return o.value
}

func (o Offset) String() string {
	if o.auto {
		return "auto"
	}
	return strconv.FormatUint(o.value, 10)
}

// clamp converts an explicit offset into a buffer index no larger than size.
func (o Offset) clamp(size int) int {
	if o.value > uint64(size) {
		return size
	}
	return int(o.value)
}
