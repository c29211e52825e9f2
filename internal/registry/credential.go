package registry

import (
	"context"
	"errors"

	"github.com/avelar/rollcall/internal/ledger"
)

// MintCredential issues a role credential to owner. Only the credential
// family's bootstrap admin may mint. The credential is created at
// derive(credential, owner, role); reissuing for the same (owner, role)
// fails with ALREADY_EXISTS - there is no idempotent re-mint, a fresh
// grant needs a distinct role string.
func (r *Registry) MintCredential(ctx context.Context, admin, owner, role string, amount uint64) (*Credential, error) {
	if err := checkLen("role", role, r.policy.MaxRoleLength); err != nil {
		return nil, err
	}

	addr, err := credentialAddress(owner, role)
	if err != nil {
		return nil, err
	}

	var cred *Credential
	err = r.ledger.Update(ctx, func(tx *ledger.Tx) error {
		c, err := tx.GetCounter(familyCredential)
		if err != nil {
			if errors.Is(err, ledger.ErrCounterMissing) {
				return &Error{
					Code:    ErrCodeNotFound,
					Message: "credential family is not initialized",
				}
			}
			return err
		}
		if c.Admin != admin {
			return errUnauthorized("caller is not the credential admin")
		}

		now := r.now()
		cred = &Credential{
			Owner:     owner,
			Role:      role,
			Amount:    amount,
			CreatedAt: now,
			UpdatedAt: now,
		}

		seq, err := tx.NextSeq()
		if err != nil {
			return err
		}
		if err := putRecord(tx, KindCredential, addr, cred, seq); err != nil {
			return err
		}
		return r.logOp(tx, "credential.mint", admin, seq)
	})
	if err != nil {
		return nil, err
	}

	r.log.Info("credential minted", "owner", owner, "role", role, "amount", amount)
	return cred, nil
}

// HasRole reports whether identity holds a positively-funded credential
// for role. This is the entire authorization primitive: the credential's
// existence at the derived address, with amount > 0, is the proof.
func (r *Registry) HasRole(ctx context.Context, identity, role string) (bool, error) {
	var ok bool
	err := r.ledger.View(ctx, func(tx *ledger.Tx) error {
		var err error
		ok, err = hasRole(tx, identity, role)
		return err
	})
	return ok, err
}

// GetCredential loads the credential at derive(credential, owner, role).
func (r *Registry) GetCredential(ctx context.Context, owner, role string) (*Credential, error) {
	addr, err := credentialAddress(owner, role)
	if err != nil {
		return nil, err
	}

	var cred *Credential
	err = r.ledger.View(ctx, func(tx *ledger.Tx) error {
		cred, err = getRecord[Credential](tx, KindCredential, addr)
		return err
	})
	if err != nil {
		return nil, err
	}
	return cred, nil
}

// hasRole is the in-transaction form of HasRole, shared by the gate.
// Pure read: derive, load if present, check the balance.
func hasRole(tx *ledger.Tx, identity, role string) (bool, error) {
	addr, err := credentialAddress(identity, role)
	if err != nil {
		return false, err
	}

	cred, err := getRecord[Credential](tx, KindCredential, addr)
	if err != nil {
		if IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return cred.Amount > 0, nil
}
