package fractal

import (
	"encoding/binary"
	"hash/fnv"
	"math"
)

// rawBits is the IEEE-754 bit pattern of a Scalar.
//
// It is only for cache keys. Bitwise comparison is sound there because a
// valid spec never holds NaN and the specs being compared are never
// rebuilt through independent lossy arithmetic.
type rawBits uint64

func bitsOf(s Scalar) rawBits { return rawBits(math.Float64bits(s)) }

// CacheKey is the identity of a TileSpec for caching purposes: exact
// geometry, pixel size, algorithm and iteration limit. The colourer and
// the strip offset are deliberately left out.
type CacheKey struct {
	originRe, originIm rawBits
	axesRe, axesIm     rawBits
	width, height      uint32
	algorithm          Algorithm
	maxIter            uint32
}

// CacheKey returns the cache identity of s.
func (s TileSpec) CacheKey() CacheKey {
	return CacheKey{
		originRe:  bitsOf(s.origin.Re),
		originIm:  bitsOf(s.origin.Im),
		axesRe:    bitsOf(s.axes.Re),
		axesIm:    bitsOf(s.axes.Im),
		width:     s.size.Width,
		height:    s.size.Height,
		algorithm: s.alg.Algorithm,
		maxIter:   s.alg.MaxIter,
	}
}

// Equivalent reports whether s and o would share a cache entry.
func (s TileSpec) Equivalent(o TileSpec) bool {
	return s.CacheKey() == o.CacheKey()
}

// Hash is the FNV-1a hash of the key.
func (k CacheKey) Hash() uint64 {
	var buf [4*8 + 4 + 4 + 1 + 4]byte
	b := buf[:0]
	b = binary.LittleEndian.AppendUint64(b, uint64(k.originRe))
	b = binary.LittleEndian.AppendUint64(b, uint64(k.originIm))
	b = binary.LittleEndian.AppendUint64(b, uint64(k.axesRe))
	b = binary.LittleEndian.AppendUint64(b, uint64(k.axesIm))
	b = binary.LittleEndian.AppendUint32(b, k.width)
	b = binary.LittleEndian.AppendUint32(b, k.height)
	b = append(b, byte(k.algorithm))
	b = binary.LittleEndian.AppendUint32(b, k.maxIter)
	h := fnv.New64a()
	_, _ = h.Write(b) // fnv.Write never returns an error
	return h.Sum64()
}
