// Package bitmap provides a compact set of integer IDs, used for
// referential checks such as "is this rating's user_id a known user?".
package bitmap

import (
	"math"

	"github.com/RoaringBitmap/roaring"
)

// Bitmap is a set of IDs. IDs in [0, MaxUint32] live in a roaring bitmap;
// any other int goes to a small overflow map so membership stays exact.
// The zero value is an empty set.
type Bitmap struct {
	rb       *roaring.Bitmap
	overflow map[int]struct{}
}

func inRange(id int) bool {
	return id >= 0 && uint64(id) <= math.MaxUint32
}

// Add sets id.
func (b *Bitmap) Add(id int) {
	if !inRange(id) {
		if b.overflow == nil {
			b.overflow = make(map[int]struct{})
		}
		b.overflow[id] = struct{}{}
		return
	}
	if b.rb == nil {
		b.rb = roaring.New()
	}
	b.rb.Add(uint32(id))
}

// Has reports whether id is set.
func (b *Bitmap) Has(id int) bool {
	if !inRange(id) {
		_, ok := b.overflow[id]
		return ok
	}
	return b.rb != nil && b.rb.Contains(uint32(id))
}
