// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// legacyIDPrefix is stripped from ids of registry files written for the
// first bot, where the id already carried the control prefix.
const legacyIDPrefix = "apply_"

// Registry is the read-only application type index. It is safe for
// concurrent use because nothing mutates it after New returns.
type Registry struct {
	types   []ApplicationType
	byID    map[string]int
	byLabel map[string]int
}

// LoadRegistry reads and schema-validates a registry file.
func LoadRegistry(path string) (*RegistryFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := ValidateDocument(data); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	var reg RegistryFile
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	for i := range reg.ApplicationTypes {
		reg.ApplicationTypes[i].ID = strings.TrimPrefix(reg.ApplicationTypes[i].ID, legacyIDPrefix)
	}
	return &reg, nil
}

// SaveRegistry writes reg to path as indented JSON.
func SaveRegistry(reg *RegistryFile, path string) error {
	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write registry file: %w", err)
	}
	return nil
}

// ValidateDocument checks raw JSON against the registry schema.
func ValidateDocument(data []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(documentSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("invalid registry: %s", strings.Join(msgs, "; "))
}

// Load reads a registry file and builds the index.
func Load(path string) (*Registry, error) {
	file, err := LoadRegistry(path)
	if err != nil {
		return nil, err
	}
	return New(file.ApplicationTypes)
}

// New indexes types in the given order. Ids and labels must be unique,
// labels must be whitespace-normalized (they are recovered from rendered
// titles by token), and each type's field ids must be unique.
func New(types []ApplicationType) (*Registry, error) {
	if len(types) > MaxApplicationTypes {
		return nil, fmt.Errorf("registry holds %d application types, limit is %d", len(types), MaxApplicationTypes)
	}

	r := &Registry{
		types:   make([]ApplicationType, 0, len(types)),
		byID:    make(map[string]int, len(types)),
		byLabel: make(map[string]int, len(types)),
	}
	for _, t := range types {
		if err := validateType(t); err != nil {
			return nil, err
		}
		if _, dup := r.byID[t.ID]; dup {
			return nil, fmt.Errorf("duplicate application type id: %s", t.ID)
		}
		if _, dup := r.byLabel[t.Label]; dup {
			return nil, fmt.Errorf("duplicate application type label: %s", t.Label)
		}
		if t.Style == "" {
			t.Style = ButtonPrimary
		}
		t.Form = append([]FormField(nil), t.Form...)
		r.byID[t.ID] = len(r.types)
		r.byLabel[t.Label] = len(r.types)
		r.types = append(r.types, t)
	}
	return r, nil
}

func validateType(t ApplicationType) error {
	if t.ID == "" {
		return fmt.Errorf("application type missing required field: id")
	}
	if len(t.ID) > MaxTypeIDLength {
		return fmt.Errorf("application type id %s longer than %d characters", t.ID, MaxTypeIDLength)
	}
	if t.Label == "" {
		return fmt.Errorf("application type %s missing required field: label", t.ID)
	}
	if strings.Join(strings.Fields(t.Label), " ") != t.Label {
		return fmt.Errorf("application type %s label %q must not carry leading, trailing or repeated whitespace", t.ID, t.Label)
	}
	if len(t.Label) > MaxLabelLength {
		return fmt.Errorf("application type %s label longer than %d characters", t.ID, MaxLabelLength)
	}
	if t.RoleID == "" {
		return fmt.Errorf("application type %s missing required field: role", t.ID)
	}
	switch t.Style {
	case "", ButtonPrimary, ButtonSecondary, ButtonSuccess, ButtonDanger:
	default:
		return fmt.Errorf("application type %s has unknown color %q", t.ID, t.Style)
	}
	if len(t.Form) == 0 || len(t.Form) > MaxFormFields {
		return fmt.Errorf("application type %s must define between 1 and %d form fields", t.ID, MaxFormFields)
	}

	seen := make(map[string]bool, len(t.Form))
	for _, f := range t.Form {
		if f.ID == "" {
			return fmt.Errorf("application type %s has a form field without customId", t.ID)
		}
		if seen[f.ID] {
			return fmt.Errorf("application type %s has duplicate form field %s", t.ID, f.ID)
		}
		seen[f.ID] = true
		if f.Label == "" || len(f.Label) > MaxFieldLabelLength {
			return fmt.Errorf("application type %s field %s label must be 1-%d characters", t.ID, f.ID, MaxFieldLabelLength)
		}
		if f.Style != InputShort && f.Style != InputParagraph {
			return fmt.Errorf("application type %s field %s has unknown style %q", t.ID, f.ID, f.Style)
		}
		if f.MaxLength > 0 && f.MinLength > f.MaxLength {
			return fmt.Errorf("application type %s field %s minLength exceeds maxLength", t.ID, f.ID)
		}
	}
	return nil
}

// LookupByID resolves the id carried by an encoded identifier.
func (r *Registry) LookupByID(id string) (ApplicationType, bool) {
	i, ok := r.byID[id]
	if !ok {
		return ApplicationType{}, false
	}
	return r.types[i], true
}

// LookupByLabel resolves a display label recovered from a rendered title.
// Matching is exact.
func (r *Registry) LookupByLabel(label string) (ApplicationType, bool) {
	i, ok := r.byLabel[label]
	if !ok {
		return ApplicationType{}, false
	}
	return r.types[i], true
}

// All returns the types in registry order.
func (r *Registry) All() []ApplicationType {
	out := make([]ApplicationType, len(r.types))
	copy(out, r.types)
	return out
}

// Len returns the number of registered types.
func (r *Registry) Len() int {
	return len(r.types)
}
