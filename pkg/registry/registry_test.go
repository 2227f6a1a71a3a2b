// pkg/registry/registry_test.go
package registry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTypes() []ApplicationType {
	return []ApplicationType{
		{
			ID:     "backend",
			Label:  "Backend Developer",
			Style:  ButtonPrimary,
			RoleID: "1001",
			Form: []FormField{
				{ID: "experience", Label: "Experience", Style: InputParagraph, Required: true},
				{ID: "github", Label: "GitHub", Style: InputShort, Placeholder: "https://github.com/you"},
			},
		},
		{
			ID:     "moderator",
			Label:  "Moderator",
			RoleID: "1002",
			Form: []FormField{
				{ID: "why", Label: "Why?", Style: InputParagraph, Required: true},
			},
		},
	}
}

func TestNew_LookupsAndOrder(t *testing.T) {
	reg, err := New(testTypes())
	require.NoError(t, err)

	byID, ok := reg.LookupByID("backend")
	require.True(t, ok)
	assert.Equal(t, "Backend Developer", byID.Label)

	byLabel, ok := reg.LookupByLabel("Backend Developer")
	require.True(t, ok)
	assert.Equal(t, "1001", byLabel.RoleID)

	_, ok = reg.LookupByLabel("Backend")
	assert.False(t, ok, "label lookup is exact")

	_, ok = reg.LookupByID("doesnotexist")
	assert.False(t, ok)

	all := reg.All()
	require.Len(t, all, 2)
	assert.Equal(t, "backend", all[0].ID)
	assert.Equal(t, "moderator", all[1].ID)
	assert.Equal(t, ButtonPrimary, all[1].Style, "empty color defaults to primary")
	assert.Equal(t, 2, reg.Len())
}

func TestAll_ReturnsCopy(t *testing.T) {
	reg, err := New(testTypes())
	require.NoError(t, err)

	all := reg.All()
	all[0].Label = "mutated"

	again, _ := reg.LookupByID("backend")
	assert.Equal(t, "Backend Developer", again.Label)
}

func TestNew_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func([]ApplicationType) []ApplicationType
		wantErr string
	}{
		{
			name: "duplicate id",
			mutate: func(ts []ApplicationType) []ApplicationType {
				ts[1].ID = "backend"
				return ts
			},
			wantErr: "duplicate application type id",
		},
		{
			name: "id too long for a form identifier",
			mutate: func(ts []ApplicationType) []ApplicationType {
				ts[0].ID = strings.Repeat("a", MaxTypeIDLength+1)
				return ts
			},
			wantErr: "longer than 77 characters",
		},
		{
			name: "duplicate label",
			mutate: func(ts []ApplicationType) []ApplicationType {
				ts[1].Label = "Backend Developer"
				return ts
			},
			wantErr: "duplicate application type label",
		},
		{
			name: "label with repeated whitespace",
			mutate: func(ts []ApplicationType) []ApplicationType {
				ts[0].Label = "Backend  Developer"
				return ts
			},
			wantErr: "whitespace",
		},
		{
			name: "missing role",
			mutate: func(ts []ApplicationType) []ApplicationType {
				ts[0].RoleID = ""
				return ts
			},
			wantErr: "role",
		},
		{
			name: "duplicate field",
			mutate: func(ts []ApplicationType) []ApplicationType {
				ts[0].Form[1].ID = "experience"
				return ts
			},
			wantErr: "duplicate form field",
		},
		{
			name: "no fields",
			mutate: func(ts []ApplicationType) []ApplicationType {
				ts[1].Form = nil
				return ts
			},
			wantErr: "between 1 and 5",
		},
		{
			name: "unknown input style",
			mutate: func(ts []ApplicationType) []ApplicationType {
				ts[0].Form[0].Style = "Huge"
				return ts
			},
			wantErr: "unknown style",
		},
		{
			name: "unknown button color",
			mutate: func(ts []ApplicationType) []ApplicationType {
				ts[0].Style = "Purple"
				return ts
			},
			wantErr: "unknown color",
		},
		{
			name: "min above max",
			mutate: func(ts []ApplicationType) []ApplicationType {
				ts[0].Form[0].MinLength = 10
				ts[0].Form[0].MaxLength = 5
				return ts
			},
			wantErr: "minLength exceeds maxLength",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.mutate(testTypes()))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNew_TooManyTypes(t *testing.T) {
	types := make([]ApplicationType, MaxApplicationTypes+1)
	_, err := New(types)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "limit is 25")
}

func TestLoad_FileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "configs", "application-types.json")
	require.NoError(t, SaveRegistry(&RegistryFile{
		Version:          "1.0.0",
		ApplicationTypes: testTypes(),
	}, path))

	reg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, reg.Len())

	got, ok := reg.LookupByID("moderator")
	require.True(t, ok)
	assert.Equal(t, "Why?", got.Form[0].Label)
}

func TestLoadRegistry_StripsLegacyPrefix(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.json")
	doc := `{
  "applicationTypes": [
    {
      "id": "apply_dev",
      "label": "Developer",
      "color": "Success",
      "role": "42",
      "form": [{"customId": "age", "label": "Age", "style": "Short", "placeholder": "18", "required": true}]
    }
  ]
}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	reg, err := Load(path)
	require.NoError(t, err)

	got, ok := reg.LookupByID("dev")
	require.True(t, ok)
	assert.Equal(t, ButtonSuccess, got.Style)
	assert.True(t, got.Form[0].Required)
}

func TestValidateDocument(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr bool
	}{
		{
			name:    "missing applicationTypes",
			doc:     `{"version": "1"}`,
			wantErr: true,
		},
		{
			name:    "non numeric role",
			doc:     `{"applicationTypes": [{"id": "a", "label": "A", "role": "abc", "form": [{"customId": "x", "label": "X", "style": "Short"}]}]}`,
			wantErr: true,
		},
		{
			name:    "bad field style",
			doc:     `{"applicationTypes": [{"id": "a", "label": "A", "role": "1", "form": [{"customId": "x", "label": "X", "style": "Long"}]}]}`,
			wantErr: true,
		},
		{
			name:    "id with spaces",
			doc:     `{"applicationTypes": [{"id": "a b", "label": "A", "role": "1", "form": [{"customId": "x", "label": "X", "style": "Short"}]}]}`,
			wantErr: true,
		},
		{
			name:    "id too long",
			doc:     `{"applicationTypes": [{"id": "` + strings.Repeat("a", 78) + `", "label": "A", "role": "1", "form": [{"customId": "x", "label": "X", "style": "Short"}]}]}`,
			wantErr: true,
		},
		{
			name: "valid",
			doc:  `{"applicationTypes": [{"id": "a", "label": "A", "role": "1", "form": [{"customId": "x", "label": "X", "style": "Short"}]}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDocument([]byte(tt.doc))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.True(t, os.IsNotExist(err))
}

func TestNew_LongestIDFitsFormIdentifier(t *testing.T) {
	ts := testTypes()
	ts[0].ID = strings.Repeat("a", MaxTypeIDLength)

	_, err := New(ts)
	require.NoError(t, err)
	assert.Len(t, "applicationModal_apply_"+ts[0].ID, MaxCustomIDLength)
}
