// Package xxh provides the XXHash64 checksum used to validate a
// deserialized index against the bytes that were written for it,
// adapted from the reference's hash.XXHash64.
package xxh

import "encoding/binary"

const (
	prime64_1 = uint64(0x9E3779B185EBCA87)
	prime64_2 = uint64(0xC2B2AE3D27D4EB4F)
	prime64_3 = uint64(0x165667B19E3779F9)
	prime64_4 = uint64(0x85EBCA77C2b2AE63)
	prime64_5 = uint64(0x27D4EB2F165667C5)
)

// Sum64 hashes data with the given seed.
func Sum64(seed uint64, data []byte) uint64 {
	end := len(data)
	var h64 uint64
	n := 0

	if end >= 32 {
		end32 := end - 32
		v1 := seed + prime64_1 + prime64_2
		v2 := seed + prime64_2
		v3 := seed
		v4 := seed - prime64_1

		for n <= end32 {
			buf := data[n : n+32]
			v1 = round(v1, binary.LittleEndian.Uint64(buf[0:8]))
			v2 = round(v2, binary.LittleEndian.Uint64(buf[8:16]))
			v3 = round(v3, binary.LittleEndian.Uint64(buf[16:24]))
			v4 = round(v4, binary.LittleEndian.Uint64(buf[24:32]))
			n += 32
		}

		h64 = ((v1 << 1) | (v1 >> 31)) + ((v2 << 7) | (v2 >> 25)) +
			((v3 << 12) | (v3 >> 20)) + ((v4 << 18) | (v4 >> 14))

		h64 = mergeRound(h64, v1)
		h64 = mergeRound(h64, v2)
		h64 = mergeRound(h64, v3)
		h64 = mergeRound(h64, v4)
	} else {
		h64 = seed + prime64_5
	}

	h64 += uint64(end)

	for n+8 <= end {
		h64 ^= round(0, binary.LittleEndian.Uint64(data[n:n+8]))
		h64 = ((h64<<27)|(h64>>37))*prime64_1 + prime64_4
		n += 8
	}

	for n+4 <= end {
		h64 ^= uint64(binary.LittleEndian.Uint32(data[n:n+4])) * prime64_1
		h64 = ((h64<<23)|(h64>>41))*prime64_2 + prime64_3
		n += 4
	}

	for n < end {
		h64 += uint64(data[n]) * prime64_5
		h64 = ((h64 << 11) | (h64 >> 53)) * prime64_1
		n++
	}

	h64 ^= h64 >> 33
	h64 *= prime64_2
	h64 ^= h64 >> 29
	h64 *= prime64_3
	return h64 ^ (h64 >> 32)
}

func round(acc, val uint64) uint64 {
	acc += val * prime64_2
	return ((acc << 31) | (acc >> 33)) * prime64_1
}

func mergeRound(acc, val uint64) uint64 {
	acc ^= round(0, val)
	return acc*prime64_1 + prime64_4
}
