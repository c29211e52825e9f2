package registry

import (
	"context"
	"fmt"

	"github.com/avelar/rollcall/internal/ledger"
)

// The authorization gate. Every mutating operation calls exactly one of
// requireRole/requireAnyRole (capability by credential possession) or
// requireOwner (self-ownership is its own proof) before touching storage.
// Both checks are side-effect free.

// requireRole fails with UNAUTHORIZED unless caller holds a
// positively-funded credential for role.
func requireRole(tx *ledger.Tx, caller, role string) error {
	ok, err := hasRole(tx, caller, role)
	if err != nil {
		return err
	}
	if !ok {
		return errUnauthorized(fmt.Sprintf("caller holds no %q credential", role))
	}
	return nil
}

// requireAnyRole fails with UNAUTHORIZED unless caller holds a credential
// for at least one of the given roles.
func requireAnyRole(tx *ledger.Tx, caller string, roles ...string) error {
	for _, role := range roles {
		ok, err := hasRole(tx, caller, role)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}
	return errUnauthorized(fmt.Sprintf("caller holds none of %v", roles))
}

// requireOwner fails with UNAUTHORIZED unless caller is the record's
// stored owner. No credential involved.
func requireOwner(caller, owner string) error {
	if caller != owner {
		return errUnauthorized("caller is not the record owner")
	}
	return nil
}

// Authorize answers "may caller act as role" outside any operation.
// Same check the mutating entry points run internally; exposed so hosts
// can pre-flight without attempting a write.
func (r *Registry) Authorize(ctx context.Context, caller, role string) error {
	return r.ledger.View(ctx, func(tx *ledger.Tx) error {
		return requireRole(tx, caller, role)
	})
}
