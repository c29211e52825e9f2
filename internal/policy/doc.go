// Package policy holds the runtime limits and role vocabulary of the
// registry: maximum lengths for every variable-length record field and
// the set of roles a credential may carry.
//
// Defaults are compiled in. Deployments may override them with a CUE
// policy file; the file is validated against the embedded #Policy schema
// before any value is used, so a malformed policy is rejected as a whole
// rather than half-applied.
package policy
