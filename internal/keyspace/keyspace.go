package keyspace

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"golang.org/x/text/unicode/norm"
)

// Namespace tags. One per record family plus one per family counter.
// Version suffix enables future scheme migration.
const (
	TagAccessStorage     = "rollcall/access-storage/v1"
	TagFormationStorage  = "rollcall/formation-storage/v1"
	TagSessionStorage    = "rollcall/session-storage/v1"
	TagAttendanceStorage = "rollcall/attendance-storage/v1"
	TagCredentialStorage = "rollcall/credential-storage/v1"

	TagRequest    = "rollcall/request/v1"
	TagFormation  = "rollcall/formation/v1"
	TagSession    = "rollcall/session/v1"
	TagAttendance = "rollcall/attendance/v1"
	TagCredential = "rollcall/credential/v1"
)

// Encoding limits. Derivation is total over inputs within these bounds;
// anything larger is malformed, not merely unusual.
const (
	MaxParts    = 16
	MaxPartSize = 128
)

// nonceDomain separates the verification-nonce hash from the address hash.
const nonceDomain = "rollcall/nonce/v1"

// Address is a derived storage location, the lowercase hex form of a
// SHA-256 digest. Addresses are comparable and usable as map keys.
type Address string

// String returns the hex address.
func (a Address) String() string { return string(a) }

// Nonce is a one-byte verification value derived alongside an address.
// A holder of only the public derivation inputs can recompute it to check
// that an address was produced by this scheme.
type Nonce uint8

// Derive computes the address and nonce for (tag, parts).
//
// Deterministic and side-effect free. Distinct (tag, parts) tuples derive
// distinct addresses; the caller must include every disambiguating field
// in parts for that guarantee to mean anything.
//
// Errors are limited to malformed input: empty tag, more than MaxParts
// parts, or a part longer than MaxPartSize bytes.
func Derive(tag string, parts ...[]byte) (Address, Nonce, error) {
	if tag == "" {
		return "", 0, fmt.Errorf("keyspace: empty tag")
	}
	if len(parts) > MaxParts {
		return "", 0, fmt.Errorf("keyspace: %d parts exceeds maximum %d", len(parts), MaxParts)
	}
	for i, p := range parts {
		if len(p) > MaxPartSize {
			return "", 0, fmt.Errorf("keyspace: part %d is %d bytes, exceeds maximum %d", i, len(p), MaxPartSize)
		}
	}

	sum := hashWithDomain(tag, parts)
	addr := Address(hex.EncodeToString(sum))

	// Nonce from a second domain-separated hash over the address bytes.
	nsum := hashWithDomain(nonceDomain, [][]byte{sum})
	return addr, Nonce(nsum[0]), nil
}

// DeriveString is Derive over string parts. Strings are NFC-normalized
// before encoding so that visually identical identifiers derive the same
// address regardless of the caller's Unicode composition form.
func DeriveString(tag string, parts ...string) (Address, Nonce, error) {
	raw := make([][]byte, len(parts))
	for i, p := range parts {
		raw[i] = []byte(norm.NFC.String(p))
	}
	return Derive(tag, raw...)
}

// Verify recomputes the derivation and reports whether it matches the
// given address and nonce.
func Verify(addr Address, nonce Nonce, tag string, parts ...[]byte) bool {
	got, gotNonce, err := Derive(tag, parts...)
	if err != nil {
		return false
	}
	return got == addr && gotNonce == nonce
}

// hashWithDomain computes SHA256(domain + 0x00 + enc(parts)).
// Each part is prefixed with its length as a big-endian uint32 so that
// part boundaries are unambiguous: ("ab","c") and ("a","bc") hash
// differently.
func hashWithDomain(domain string, parts [][]byte) []byte {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})

	var lenBuf [4]byte
	for _, p := range parts {
		binary.BigEndian.PutUint32(lenBuf[:], uint32(len(p)))
		h.Write(lenBuf[:])
		h.Write(p)
	}
	return h.Sum(nil)
}
