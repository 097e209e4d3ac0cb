package predicate

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainSpec prefixes spec fingerprints. The version suffix allows the
// canonical form to change without colliding with older fingerprints.
const DomainSpec = "qsfilter/spec/v1"

// hashWithDomain computes SHA256(domain + 0x00 + data).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Fingerprint returns a stable content hash of spec.
//
// Two specs with the same predicates, order and pagination hash equally
// regardless of predicate field order, which makes the fingerprint usable
// as a result-cache key.
func Fingerprint(spec *Spec) (string, error) {
	canonical, err := MarshalCanonical(spec)
	if err != nil {
		return "", fmt.Errorf("Fingerprint: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainSpec, canonical), nil
}
