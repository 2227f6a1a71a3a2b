// cmd/tools/registry-updater/main_test.go
package main

import (
	"path/filepath"
	"strings"
	"testing"

	"application-intake-bot/pkg/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useRegistry(t *testing.T) {
	t.Helper()
	previous := registryPath
	registryPath = filepath.Join(t.TempDir(), "application-types.json")
	t.Cleanup(func() { registryPath = previous })
}

func backendType() registry.ApplicationType {
	return registry.ApplicationType{
		ID:     "backend",
		Label:  "Backend Developer",
		Style:  registry.ButtonPrimary,
		RoleID: "900",
		Form:   []registry.FormField{{ID: "experience", Label: "Experience", Style: registry.InputParagraph, Required: true}},
	}
}

func TestAddType_CreatesRegistry(t *testing.T) {
	useRegistry(t)

	require.NoError(t, addType(backendType()))
	require.NoError(t, addField("backend", registry.FormField{ID: "github", Label: "GitHub", Style: registry.InputShort}))
	require.NoError(t, updateType("backend", "color", "Success"))
	require.NoError(t, validateRegistry())

	reg, err := registry.Load(registryPath)
	require.NoError(t, err)
	got, ok := reg.LookupByID("backend")
	require.True(t, ok)
	assert.Equal(t, registry.ButtonSuccess, got.Style)
	assert.Len(t, got.Form, 2)
}

func TestAddType_RefusesWhatTheBotWouldReject(t *testing.T) {
	useRegistry(t)
	require.NoError(t, addType(backendType()))

	assert.ErrorContains(t, addType(backendType()), "already exists")

	long := backendType()
	long.ID = strings.Repeat("a", registry.MaxTypeIDLength+1)
	long.Label = "Long"
	assert.Error(t, addType(long))

	assert.ErrorContains(t, updateType("backend", "color", "Purple"), "unknown color")
	assert.ErrorContains(t, updateType("missing", "label", "X"), "not found")
}

func TestRemoveType(t *testing.T) {
	useRegistry(t)
	require.NoError(t, addType(backendType()))

	assert.ErrorContains(t, removeType("missing"), "not found")
	require.NoError(t, removeType("backend"))

	file, err := registry.LoadRegistry(registryPath)
	require.NoError(t, err)
	assert.Empty(t, file.ApplicationTypes)
}
