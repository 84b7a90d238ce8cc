package build

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/HerbHall/rigplanner/pkg/models"
)

// Fingerprint identifies a slot assignment. Two maps holding the same
// component IDs in the same slots share a fingerprint, so callers can
// memoize derived values on it.
func Fingerprint(slots models.BuildSlotMap) string {
	h := sha256.New()
	for _, kind := range models.SlotKinds() {
		c := slots.Get(kind)
		if c == nil {
			continue
		}
		h.Write([]byte(kind))
		h.Write([]byte{'='})
		h.Write([]byte(c.ID))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
