package policy

import (
	_ "embed"
	"fmt"
	"os"
	"slices"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

//go:embed schema.cue
var schemaCUE string

// Well-known roles. The policy may add more, but the gate only ever asks
// for these three.
const (
	RoleAdmin   = "admin"
	RoleTrainer = "trainer"
	RoleStudent = "student"
)

// Policy is the registry's runtime limits and role vocabulary.
// Caps apply to the byte length of the field at creation and mutation
// time; a write one byte over any cap is rejected before any state
// changes.
type Policy struct {
	MaxRoleLength        int      `json:"max_role_length"`
	MaxMessageLength     int      `json:"max_message_length"`
	MaxTitleLength       int      `json:"max_title_length"`
	MaxDescriptionLength int      `json:"max_description_length"`
	MaxLocationLength    int      `json:"max_location_length"`
	MaxNoteLength        int      `json:"max_note_length"`
	Roles                []string `json:"roles"`
}

// Default returns the built-in policy, matching the original deployment
// limits (role 20, message 100, title 100, description 500, location 100,
// note 100).
func Default() Policy {
	return Policy{
		MaxRoleLength:        20,
		MaxMessageLength:     100,
		MaxTitleLength:       100,
		MaxDescriptionLength: 500,
		MaxLocationLength:    100,
		MaxNoteLength:        100,
		Roles:                []string{RoleAdmin, RoleTrainer, RoleStudent},
	}
}

// KnownRole reports whether the policy's role vocabulary includes role.
func (p Policy) KnownRole(role string) bool {
	return slices.Contains(p.Roles, role)
}

// Load reads and validates a CUE policy file. The file is unified with
// the embedded #Policy schema, so omitted fields take schema defaults and
// out-of-range values fail validation with a CUE error naming the field.
func Load(path string) (Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, fmt.Errorf("read policy file: %w", err)
	}
	return Parse(data, path)
}

// Parse validates raw CUE policy bytes. filename is used in error
// positions only.
func Parse(data []byte, filename string) (Policy, error) {
	cctx := cuecontext.New()

	schema := cctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return Policy{}, fmt.Errorf("compile policy schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Policy"))
	if !def.Exists() {
		return Policy{}, fmt.Errorf("policy schema: #Policy not found")
	}

	val := cctx.CompileBytes(data, cue.Filename(filename))
	if err := val.Err(); err != nil {
		return Policy{}, fmt.Errorf("compile policy file: %w", err)
	}

	unified := def.Unify(val)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return Policy{}, fmt.Errorf("validate policy: %w", err)
	}

	var p Policy
	if err := unified.Decode(&p); err != nil {
		return Policy{}, fmt.Errorf("decode policy: %w", err)
	}
	return p, nil
}
