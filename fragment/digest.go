package fragment

import (
	"encoding/binary"
	"hash"

	"blainsmith.com/go/seahash"
)

func hashInt(h hash.Hash64, buf *[8]byte, v int) {
	binary.LittleEndian.PutUint64(buf[:], uint64(int64(v)))
	h.Write(buf[:])
}

func hashString(h hash.Hash64, buf *[8]byte, s string) {
	hashInt(h, buf, len(s))
	h.Write([]byte(s))
}

func hashInts(h hash.Hash64, buf *[8]byte, vs []int) {
	hashInt(h, buf, len(vs))
	for _, v := range vs {
		hashInt(h, buf, v)
	}
}

// Digest returns an order-sensitive fingerprint of a fragment table.  Two
// tables have the same digest iff, barring collisions, every field of every
// fragment is equal.
func Digest(frags []Fragment) uint64 {
	h := seahash.New()
	var buf [8]byte
	hashInt(h, &buf, len(frags))
	for _, f := range frags {
		hashString(h, &buf, f.Group)
		for _, v := range [...]int{
			f.NStart, f.CEnd, f.NStartNat, f.CEndNat,
			f.PeptideCount, f.NativePeptideCount,
			f.CleavageCount, f.NativeCleavageCount,
		} {
			hashInt(h, &buf, v)
		}
		hashInts(h, &buf, f.CleavageSites)
		hashInts(h, &buf, f.NativeCleavageSites)
		hashInt(h, &buf, len(f.CoveredSequences))
		for _, s := range f.CoveredSequences {
			hashString(h, &buf, s)
		}
	}
	return h.Sum64()
}
