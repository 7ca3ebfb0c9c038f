package sixel

import (
	"unsafe"

	"golang.org/x/sys/cpu"
)

// simdFillThreshold is the minimum span length (bytes) worth routing through
// the vector-store fast path; below it the per-store overhead dominates
// (spec §4.1, §9).
const simdFillThreshold = 64

// hasVectorStores reports whether the running platform advertises a 128-bit
// SIMD feature. Detected once at package init so fillSpan never pays the
// detection cost per call.
var hasVectorStores = detectVectorStores()

func detectVectorStores() bool {
	switch {
	case cpu.X86.HasSSE2:
		return true
	case cpu.ARM64.HasASIMD:
		return true
	default:
		return false
	}
}

// fillSpan replicates a 4-byte color across span, a byte slice whose length
// must be a multiple of 4. It is safe for any alignment: on platforms with a
// 128-bit vector-store feature and spans >= simdFillThreshold, it stores a
// repeating 16-byte pattern in a loop and finishes the tail with a byte
// copy; otherwise it writes the first 4 bytes and exponentially
// self-copies the written region until the span is full.
func fillSpan(span []byte, color [4]byte) {
	if len(span) == 0 {
		return
	}
	if len(span) <= 4 {
		for i := range span {
			span[i] = color[i%4]
		}
		return
	}
	if hasVectorStores && len(span) >= simdFillThreshold {
		fillSpanVector(span, color)
		return
	}
	fillSpanScalar(span, color)
}

// fillSpanVector stores a 16-byte repeating pattern in 16-byte strides using
// unaligned word stores (the Go portable equivalent of a 128-bit vector
// store: two 8-byte writes through an unsafe pointer), then finishes any
// remaining tail with a byte copy.
func fillSpanVector(span []byte, color [4]byte) {
	var pattern [16]byte
	for i := 0; i < 16; i++ {
		pattern[i] = color[i%4]
	}
	lo := *(*uint64)(unsafe.Pointer(&pattern[0]))
	hi := *(*uint64)(unsafe.Pointer(&pattern[8]))

	n := len(span)
	i := 0
	for ; i+16 <= n; i += 16 {
		p := unsafe.Pointer(&span[i])
		*(*uint64)(p) = lo
		*(*uint64)(unsafe.Add(p, 8)) = hi
	}
	if i < n {
		copy(span[i:], pattern[:n-i])
	}
}

// fillSpanScalar writes the first 4 bytes, then doubles the written region
// by self-copy until the whole span is filled — O(log n) copy calls.
func fillSpanScalar(span []byte, color [4]byte) {
	copy(span[:4], color[:])
	written := 4
	for written < len(span) {
		n := written
		if n > len(span)-written {
			n = len(span) - written
		}
		copy(span[written:written+n], span[:n])
		written += n
	}
}
