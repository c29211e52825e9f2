package registry

import (
	"context"

	"github.com/avelar/rollcall/internal/ledger"
	"github.com/avelar/rollcall/internal/policy"
)

// SessionFields are the caller-settable session fields, fixed at
// creation.
type SessionFields struct {
	FormationID string
	Title       string
	Description string
	Date        int64
	Duration    uint64
	Location    string
}

// CreateSession creates a session at derive(session, decimal(id)) with
// the id minted from the session counter. Caller must hold an admin or
// trainer credential. Sessions have no update path; fields are fixed at
// creation.
func (r *Registry) CreateSession(ctx context.Context, trainer string, f SessionFields) (*Session, error) {
	if err := checkLen("title", f.Title, r.policy.MaxTitleLength); err != nil {
		return nil, err
	}
	if err := checkLen("description", f.Description, r.policy.MaxDescriptionLength); err != nil {
		return nil, err
	}
	if err := checkLen("location", f.Location, r.policy.MaxLocationLength); err != nil {
		return nil, err
	}

	var sess *Session
	err := r.ledger.Update(ctx, func(tx *ledger.Tx) error {
		if err := requireAnyRole(tx, trainer, policy.RoleAdmin, policy.RoleTrainer); err != nil {
			return err
		}

		id, err := nextID(tx, familySession)
		if err != nil {
			return err
		}
		addr, err := sessionAddress(id)
		if err != nil {
			return err
		}

		now := r.now()
		sess = &Session{
			ID:          id,
			FormationID: f.FormationID,
			Title:       f.Title,
			Description: f.Description,
			Trainer:     trainer,
			Date:        f.Date,
			Duration:    f.Duration,
			Location:    f.Location,
			Active:      true,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		seq, err := tx.NextSeq()
		if err != nil {
			return err
		}
		if err := putRecord(tx, KindSession, addr, sess, seq); err != nil {
			return err
		}
		return r.logOp(tx, "session.create", trainer, seq)
	})
	if err != nil {
		return nil, err
	}

	r.log.Info("session created", "id", sess.ID, "trainer", trainer)
	return sess, nil
}

// GetSession loads the session with the given id.
func (r *Registry) GetSession(ctx context.Context, id uint64) (*Session, error) {
	addr, err := sessionAddress(id)
	if err != nil {
		return nil, err
	}

	var sess *Session
	err = r.ledger.View(ctx, func(tx *ledger.Tx) error {
		sess, err = getRecord[Session](tx, KindSession, addr)
		return err
	})
	if err != nil {
		return nil, err
	}
	return sess, nil
}
