package registry

import (
	"context"

	"github.com/avelar/rollcall/internal/ledger"
	"github.com/avelar/rollcall/internal/policy"
)

// CheckIn records a student's attendance for a session at
// derive(attendance, student, session). Caller must hold a student
// credential and is the record's owner thereafter. The session id is
// taken as given; a check-in against a nonexistent session creates an
// orphan record at an address nothing else will ever derive.
func (r *Registry) CheckIn(ctx context.Context, student string, sessionID uint64, present bool, note string) (*Attendance, error) {
	if err := checkLen("note", note, r.policy.MaxNoteLength); err != nil {
		return nil, err
	}

	addr, err := attendanceAddress(student, sessionID)
	if err != nil {
		return nil, err
	}

	var att *Attendance
	err = r.ledger.Update(ctx, func(tx *ledger.Tx) error {
		if err := requireRole(tx, student, policy.RoleStudent); err != nil {
			return err
		}

		id, err := nextID(tx, familyAttendance)
		if err != nil {
			return err
		}

		now := r.now()
		att = &Attendance{
			ID:          id,
			SessionID:   sessionID,
			Student:     student,
			Present:     present,
			CheckInTime: now,
			Note:        note,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		seq, err := tx.NextSeq()
		if err != nil {
			return err
		}
		if err := putRecord(tx, KindAttendance, addr, att, seq); err != nil {
			if IsAlreadyExists(err) {
				return errAlreadyExists(KindAttendance, "student already checked in to this session")
			}
			return err
		}
		return r.logOp(tx, "attendance.checkin", student, seq)
	})
	if err != nil {
		return nil, err
	}

	r.log.Info("attendance recorded", "student", student, "session", sessionID)
	return att, nil
}

// CheckOut closes a student's attendance record: sets the check-out time,
// updates the presence flag, and replaces the note when one is given
// (empty note keeps the check-in note). Owner-only; the student who
// checked in is the only identity that can check out. A record that
// already has a check-out time cannot be checked out again.
func (r *Registry) CheckOut(ctx context.Context, student string, sessionID uint64, present bool, note string) (*Attendance, error) {
	if err := checkLen("note", note, r.policy.MaxNoteLength); err != nil {
		return nil, err
	}

	addr, err := attendanceAddress(student, sessionID)
	if err != nil {
		return nil, err
	}

	var att *Attendance
	err = r.ledger.Update(ctx, func(tx *ledger.Tx) error {
		att, err = getRecord[Attendance](tx, KindAttendance, addr)
		if err != nil {
			return err
		}
		if err := requireOwner(student, att.Student); err != nil {
			return err
		}
		if att.CheckOutTime != nil {
			return errInvalidState(KindAttendance, "attendance is already checked out")
		}

		now := r.now()
		att.Present = present
		att.CheckOutTime = &now
		if note != "" {
			att.Note = note
		}
		att.UpdatedAt = now

		seq, err := tx.NextSeq()
		if err != nil {
			return err
		}
		if err := overwriteRecord(tx, KindAttendance, addr, att, seq); err != nil {
			return err
		}
		return r.logOp(tx, "attendance.checkout", student, seq)
	})
	if err != nil {
		return nil, err
	}

	r.log.Info("attendance checked out", "student", student, "session", sessionID)
	return att, nil
}

// GetAttendance loads a student's attendance record for a session.
func (r *Registry) GetAttendance(ctx context.Context, student string, sessionID uint64) (*Attendance, error) {
	addr, err := attendanceAddress(student, sessionID)
	if err != nil {
		return nil, err
	}

	var att *Attendance
	err = r.ledger.View(ctx, func(tx *ledger.Tx) error {
		att, err = getRecord[Attendance](tx, KindAttendance, addr)
		return err
	})
	if err != nil {
		return nil, err
	}
	return att, nil
}
