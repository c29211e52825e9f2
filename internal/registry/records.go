package registry

import (
	"strconv"

	"github.com/avelar/rollcall/internal/keyspace"
)

// Record kinds as stored in ledger slots.
const (
	KindRequest    = "request"
	KindFormation  = "formation"
	KindSession    = "session"
	KindAttendance = "attendance"
	KindCredential = "credential"
)

// RequestStatus is the access-request workflow state.
// pending is initial; approved and rejected are terminal.
type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusApproved RequestStatus = "approved"
	StatusRejected RequestStatus = "rejected"
)

// Request is an access request, one live request per requester.
// Address: derive(request, requester).
type Request struct {
	ID        uint64        `json:"id"`
	Requester string        `json:"requester"`
	Role      string        `json:"role"`
	Message   string        `json:"message"`
	Status    RequestStatus `json:"status"`
	CreatedAt int64         `json:"created_at"`
	UpdatedAt int64         `json:"updated_at"`
}

// Formation is a course formation, upsertable by admins indefinitely.
// Address: derive(formation, id).
type Formation struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Creator     string `json:"creator"`
	StartDate   int64  `json:"start_date"`
	EndDate     int64  `json:"end_date"`
	Active      bool   `json:"is_active"`
	CreatedAt   int64  `json:"created_at"`
	UpdatedAt   int64  `json:"updated_at"`
}

// Session is a scheduled occurrence of a formation. Fields are fixed at
// creation. Address: derive(session, decimal(id)).
type Session struct {
	ID          uint64 `json:"id"`
	FormationID string `json:"formation_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Trainer     string `json:"trainer"`
	Date        int64  `json:"date"`
	Duration    uint64 `json:"duration_minutes"`
	Location    string `json:"location"`
	Active      bool   `json:"is_active"`
	CreatedAt   int64  `json:"created_at"`
	UpdatedAt   int64  `json:"updated_at"`
}

// Attendance is one student's presence record for one session, created at
// check-in and mutated once at check-out.
// Address: derive(attendance, student, decimal(session_id)).
type Attendance struct {
	ID           uint64 `json:"id"`
	SessionID    uint64 `json:"session_id"`
	Student      string `json:"student"`
	Present      bool   `json:"is_present"`
	CheckInTime  int64  `json:"check_in_time"`
	CheckOutTime *int64 `json:"check_out_time,omitempty"`
	Note         string `json:"note"`
	CreatedAt    int64  `json:"created_at"`
	UpdatedAt    int64  `json:"updated_at"`
}

// Credential proves its owner holds a role. Existence at the derived
// address with Amount > 0 is the entire proof; there is no ACL.
// Address: derive(credential, owner, role).
type Credential struct {
	Owner     string `json:"owner"`
	Role      string `json:"role"`
	Amount    uint64 `json:"amount"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
}

// Address derivations. Each includes every disambiguating field of its
// record kind; the collision-freedom contract lives here.

func requestAddress(requester string) (keyspace.Address, error) {
	addr, _, err := keyspace.DeriveString(keyspace.TagRequest, requester)
	return addr, err
}

func formationAddress(id string) (keyspace.Address, error) {
	addr, _, err := keyspace.DeriveString(keyspace.TagFormation, id)
	return addr, err
}

func sessionAddress(id uint64) (keyspace.Address, error) {
	addr, _, err := keyspace.DeriveString(keyspace.TagSession, strconv.FormatUint(id, 10))
	return addr, err
}

func attendanceAddress(student string, sessionID uint64) (keyspace.Address, error) {
	addr, _, err := keyspace.DeriveString(keyspace.TagAttendance, student, strconv.FormatUint(sessionID, 10))
	return addr, err
}

func credentialAddress(owner, role string) (keyspace.Address, error) {
	addr, _, err := keyspace.DeriveString(keyspace.TagCredential, owner, role)
	return addr, err
}
