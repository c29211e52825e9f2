package registry

import (
	"context"
	"strconv"

	"github.com/avelar/rollcall/internal/ledger"
	"github.com/avelar/rollcall/internal/policy"
)

// FormationTarget says whether an upsert creates a new formation or
// updates an existing one. The ambiguity of an optional id is resolved
// here, before any storage is touched.
type FormationTarget struct {
	id       string
	existing bool
}

// CreateFormation targets a new formation; its id comes from the
// formation counter.
func CreateFormation() FormationTarget {
	return FormationTarget{}
}

// ExistingFormation targets the formation with the given id.
func ExistingFormation(id string) FormationTarget {
	return FormationTarget{id: id, existing: true}
}

// FormationFields are the caller-settable formation fields.
type FormationFields struct {
	Title       string
	Description string
	StartDate   int64
	EndDate     int64
	Active      bool
}

// UpsertFormation creates or updates a formation. Admin credential
// required either way. On update, empty Title/Description mean "keep the
// stored value"; dates and the active flag are always written. The
// creator field records the admin who last wrote the formation.
func (r *Registry) UpsertFormation(ctx context.Context, admin string, target FormationTarget, f FormationFields) (*Formation, error) {
	if err := checkLen("title", f.Title, r.policy.MaxTitleLength); err != nil {
		return nil, err
	}
	if err := checkLen("description", f.Description, r.policy.MaxDescriptionLength); err != nil {
		return nil, err
	}

	var formation *Formation
	err := r.ledger.Update(ctx, func(tx *ledger.Tx) error {
		if err := requireRole(tx, admin, policy.RoleAdmin); err != nil {
			return err
		}

		now := r.now()
		seq, err := tx.NextSeq()
		if err != nil {
			return err
		}

		if !target.existing {
			id, err := nextID(tx, familyFormation)
			if err != nil {
				return err
			}

			formation = &Formation{
				ID:          strconv.FormatUint(id, 10),
				Title:       f.Title,
				Description: f.Description,
				Creator:     admin,
				StartDate:   f.StartDate,
				EndDate:     f.EndDate,
				Active:      f.Active,
				CreatedAt:   now,
				UpdatedAt:   now,
			}

			addr, err := formationAddress(formation.ID)
			if err != nil {
				return err
			}
			// Ids are issued exactly once, so an occupied address here is
			// an invariant violation, not a caller mistake.
			if err := putRecord(tx, KindFormation, addr, formation, seq); err != nil {
				return err
			}
			return r.logOp(tx, "formation.create", admin, seq)
		}

		addr, err := formationAddress(target.id)
		if err != nil {
			return err
		}
		formation, err = getRecord[Formation](tx, KindFormation, addr)
		if err != nil {
			return err
		}

		if f.Title != "" {
			formation.Title = f.Title
		}
		if f.Description != "" {
			formation.Description = f.Description
		}
		formation.Creator = admin
		formation.StartDate = f.StartDate
		formation.EndDate = f.EndDate
		formation.Active = f.Active
		formation.UpdatedAt = now

		if err := overwriteRecord(tx, KindFormation, addr, formation, seq); err != nil {
			return err
		}
		return r.logOp(tx, "formation.update", admin, seq)
	})
	if err != nil {
		return nil, err
	}

	r.log.Info("formation upserted", "id", formation.ID, "admin", admin)
	return formation, nil
}

// GetFormation loads the formation with the given id.
func (r *Registry) GetFormation(ctx context.Context, id string) (*Formation, error) {
	addr, err := formationAddress(id)
	if err != nil {
		return nil, err
	}

	var formation *Formation
	err = r.ledger.View(ctx, func(tx *ledger.Tx) error {
		formation, err = getRecord[Formation](tx, KindFormation, addr)
		return err
	})
	if err != nil {
		return nil, err
	}
	return formation, nil
}
