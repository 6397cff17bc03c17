// Package tenant holds the pure tenant-identifier functions: canonical
// format validation, deterministic derivation from a stable seed, and
// storage-namespace naming. No I/O, no errors, no panics on bad input.
package tenant

import (
	"strings"

	"github.com/google/uuid"
)

// Namespace is the fixed namespace for deterministic identifier derivation.
// Changing it silently reassigns every user to a different tenant, so it
// must be preserved bit-for-bit, along with the normalization rule in
// Derive.
var Namespace = uuid.MustParse("7ba7b811-9dad-11d1-80b4-00c04fd430c8")

// storageNamespacePrefix prefixes derived storage partition names.
const storageNamespacePrefix = "tenant_"

// storageNamespaceHexLen bounds the hex portion of a storage namespace.
const storageNamespaceHexLen = 24

// IsValid reports whether value is exactly a canonically formatted tenant
// identifier: five hyphen-separated hex segments of lengths 8-4-4-4-12.
// No urn prefixes, braces, or missing separators; no partial matches.
func IsValid(value string) bool {
	if len(value) != 36 {
		return false
	}
	for i := 0; i < 36; i++ {
		c := value[i]
		switch i {
		case 8, 13, 18, 23:
			if c != '-' {
				return false
			}
		default:
			if !isHex(c) {
				return false
			}
		}
	}
	return true
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// Derive computes the tenant identifier for a seed. A seed that is already a
// valid identifier passes through unchanged. Any other seed is normalized
// (trimmed, lowercased) and hashed into the fixed namespace (UUID v5), so
// the same seed yields the same identifier forever, across processes and
// languages, without a persisted mapping table.
func Derive(seed string) string {
	if IsValid(seed) {
		return seed
	}
	normalized := strings.ToLower(strings.TrimSpace(seed))
	return uuid.NewSHA1(Namespace, []byte(normalized)).String()
}

// DeriveOrNew derives an identifier from seed, falling back to a random
// identifier when no seed is available at all. The second return value
// reports the fallback: it breaks idempotence, and callers must log it as a
// notable anomaly rather than swallow it.
func DeriveOrNew(seed string) (string, bool) {
	if strings.TrimSpace(seed) == "" {
		return uuid.NewString(), true
	}
	return Derive(seed), false
}

// StorageNamespace maps an identifier to the name of its isolated storage
// partition: separators stripped, lowercased, truncated, prefixed. Naming
// only; never use it for security decisions.
func StorageNamespace(identifier string) string {
	hex := strings.ToLower(strings.ReplaceAll(identifier, "-", ""))
	if len(hex) > storageNamespaceHexLen {
		hex = hex[:storageNamespaceHexLen]
	}
	return storageNamespacePrefix + hex
}
