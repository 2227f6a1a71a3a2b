// internal/common/validation/submission_test.go
package validation

import (
	"testing"

	"application-intake-bot/pkg/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var form = []registry.FormField{
	{ID: "name", Label: "Name", Style: registry.InputShort, Required: true},
	{ID: "essay", Label: "Essay", Style: registry.InputParagraph, MinLength: 10, MaxLength: 20},
	{ID: "site", Label: "Website", Style: registry.InputShort},
}

func TestValidateSubmission_Valid(t *testing.T) {
	cleaned, result := ValidateSubmission(form, map[string]string{
		"name":    "  Alice ",
		"essay":   "long enough text",
		"foreign": "dropped",
	})

	assert.True(t, result.Valid)
	assert.Empty(t, result.Problems())
	assert.Equal(t, map[string]string{"name": "Alice", "essay": "long enough text", "site": ""}, cleaned)
}

func TestValidateSubmission_Errors(t *testing.T) {
	tests := []struct {
		name     string
		values   map[string]string
		wantCode string
		wantMsg  string
	}{
		{
			name:     "required missing",
			values:   map[string]string{},
			wantCode: "REQUIRED_FIELD_MISSING",
			wantMsg:  "Name: a value is required",
		},
		{
			name:     "required whitespace only",
			values:   map[string]string{"name": "   "},
			wantCode: "REQUIRED_FIELD_EMPTY",
			wantMsg:  "Name: a value is required",
		},
		{
			name:     "too short",
			values:   map[string]string{"name": "A", "essay": "short"},
			wantCode: "MIN_LENGTH_VIOLATION",
			wantMsg:  "Essay: value must be at least 10 characters",
		},
		{
			name:     "too long",
			values:   map[string]string{"name": "A", "essay": "this essay is far too long"},
			wantCode: "MAX_LENGTH_VIOLATION",
			wantMsg:  "Essay: value must be at most 20 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, result := ValidateSubmission(form, tt.values)
			require.False(t, result.Valid)
			require.Len(t, result.Errors, 1)
			assert.Equal(t, tt.wantCode, result.Errors[0].Code)
			assert.Equal(t, []string{tt.wantMsg}, result.Problems())
		})
	}
}

func TestValidateSubmission_CountsRunesNotBytes(t *testing.T) {
	_, result := ValidateSubmission(form, map[string]string{"name": "A", "essay": "ééééééééééé"})
	assert.True(t, result.Valid)
}
