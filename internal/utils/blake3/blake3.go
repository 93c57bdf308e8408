package blake3

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// Fingerprint returns a short stable digest of values, used to correlate log
// records without writing the values themselves.
func Fingerprint(values ...string) string {
	hash := blake3.New()
	for _, v := range values {
		_, _ = hash.Write([]byte(v))
		_, _ = hash.Write([]byte{0})
	}
	return hex.EncodeToString(hash.Sum(nil)[:8])
}
