package relay

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// Params carries the parameter values that distinguish one task instance
// from another of the same family. Two tasks with the same family and equal
// params share one task id, and therefore one set of artifacts.
type Params map[string]any

// hashLen is the number of hex digits of the parameter digest kept in a
// task id.
const hashLen = 10

// Hash returns a short stable digest of the parameter set. Marshaling maps
// sorts keys, so insertion order never changes the digest.
func (p Params) Hash() string {
	data, err := json.Marshal(p)
	if err != nil {
		// Non-serializable values still need a stable identity within
		// the sorted key order.
		data = []byte(p.String())
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])[:hashLen]
}

// String renders the params as "k=v" pairs sorted by key.
func (p Params) String() string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, p[k]))
	}
	return strings.Join(parts, ", ")
}

// Decode fills a struct from the parameter map using mapstructure tags.
// Tasks that keep params in typed fields use this to avoid hand-written
// map lookups.
func (p Params) Decode(target any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("building params decoder: %w", err)
	}
	if err := dec.Decode(map[string]any(p)); err != nil {
		return fmt.Errorf("decoding params: %w", err)
	}
	return nil
}
