// Package keyspace computes derived storage addresses for registry records.
//
// Every record in the registry lives at an address that is a pure function
// of a fixed namespace tag plus the fields that disambiguate the record
// (requester identity, session id, role string, ...). Two distinct
// (tag, parts) tuples always derive distinct addresses, so creation is
// collision-free by construction provided callers include every
// disambiguating field.
//
// Addresses are SHA-256 digests with domain separation:
//
//	SHA256(tag + 0x00 + enc(parts))
//
// where enc length-prefixes each part to prevent boundary ambiguity
// between adjacent parts. The null byte separates the tag domain from the
// part data. A derivation is re-computable by anyone holding the public
// identifiers; no server-side lookup table is involved.
package keyspace
