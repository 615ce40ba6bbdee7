// Package fingerprint digests a drill configuration into a stable
// hex-encoded SHA3-256 identifier, used as a cache/reproducibility key
// for saved maps.
package fingerprint

import (
	"encoding/hex"
	"encoding/json"

	"golang.org/x/crypto/sha3"

	"github.com/deepdrill/drill/internal/config"
)

// Of returns the hex SHA3-256 digest of the options that determine a
// drill map's content.
func Of(opts config.Options) string {
	data, err := json.Marshal(opts)
	if err != nil {
		// Options marshals from plain fields; this cannot fail.
		panic(err)
	}
	sum := sha3.Sum256(data)
	return hex.EncodeToString(sum[:])
}
