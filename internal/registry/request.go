package registry

import (
	"context"

	"github.com/avelar/rollcall/internal/ledger"
	"github.com/avelar/rollcall/internal/policy"
)

// SubmitRequest creates an access request for the requester themself at
// derive(request, requester). One live request per requester: a second
// submission while the first occupies the address fails ALREADY_EXISTS.
func (r *Registry) SubmitRequest(ctx context.Context, requester, role, message string) (*Request, error) {
	if err := checkLen("role", role, r.policy.MaxRoleLength); err != nil {
		return nil, err
	}
	if err := checkLen("message", message, r.policy.MaxMessageLength); err != nil {
		return nil, err
	}

	addr, err := requestAddress(requester)
	if err != nil {
		return nil, err
	}

	var req *Request
	err = r.ledger.Update(ctx, func(tx *ledger.Tx) error {
		id, err := nextID(tx, familyAccess)
		if err != nil {
			return err
		}

		now := r.now()
		req = &Request{
			ID:        id,
			Requester: requester,
			Role:      role,
			Message:   message,
			Status:    StatusPending,
			CreatedAt: now,
			UpdatedAt: now,
		}

		seq, err := tx.NextSeq()
		if err != nil {
			return err
		}
		if err := putRecord(tx, KindRequest, addr, req, seq); err != nil {
			return err
		}
		return r.logOp(tx, "request.submit", requester, seq)
	})
	if err != nil {
		return nil, err
	}

	r.log.Info("access request submitted", "requester", requester, "id", req.ID)
	return req, nil
}

// ApproveRequest moves a pending request to approved. Admin credential
// required. grantRole, when non-empty, replaces the stored role - the
// admin can approve for a different role than the one requested.
func (r *Registry) ApproveRequest(ctx context.Context, admin, requester, grantRole string) (*Request, error) {
	return r.processRequest(ctx, admin, requester, StatusApproved, grantRole, "request.approve")
}

// RejectRequest moves a pending request to rejected. Admin credential
// required.
func (r *Registry) RejectRequest(ctx context.Context, admin, requester string) (*Request, error) {
	return r.processRequest(ctx, admin, requester, StatusRejected, "", "request.reject")
}

// processRequest is the shared pending -> terminal transition. Approved
// and rejected are terminal: any transition attempt out of them fails
// INVALID_STATE regardless of caller.
func (r *Registry) processRequest(ctx context.Context, admin, requester string, target RequestStatus, grantRole, opName string) (*Request, error) {
	if grantRole != "" {
		if err := checkLen("role", grantRole, r.policy.MaxRoleLength); err != nil {
			return nil, err
		}
	}

	addr, err := requestAddress(requester)
	if err != nil {
		return nil, err
	}

	var req *Request
	err = r.ledger.Update(ctx, func(tx *ledger.Tx) error {
		if err := requireRole(tx, admin, policy.RoleAdmin); err != nil {
			return err
		}

		req, err = getRecord[Request](tx, KindRequest, addr)
		if err != nil {
			return err
		}
		if req.Status != StatusPending {
			return errInvalidState(KindRequest, "request is not pending")
		}

		req.Status = target
		if grantRole != "" {
			req.Role = grantRole
		}
		req.UpdatedAt = r.now()

		seq, err := tx.NextSeq()
		if err != nil {
			return err
		}
		if err := overwriteRecord(tx, KindRequest, addr, req, seq); err != nil {
			return err
		}
		return r.logOp(tx, opName, admin, seq)
	})
	if err != nil {
		return nil, err
	}

	r.log.Info("access request processed", "requester", requester, "status", req.Status)
	return req, nil
}

// GetRequest loads the requester's access request.
func (r *Registry) GetRequest(ctx context.Context, requester string) (*Request, error) {
	addr, err := requestAddress(requester)
	if err != nil {
		return nil, err
	}

	var req *Request
	err = r.ledger.View(ctx, func(tx *ledger.Tx) error {
		req, err = getRecord[Request](tx, KindRequest, addr)
		return err
	})
	if err != nil {
		return nil, err
	}
	return req, nil
}
