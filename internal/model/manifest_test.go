package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadManifest_MissingFileUsesDefault(t *testing.T) {
	m, found, err := ReadManifest(filepath.Join(t.TempDir(), "manifest.yaml"))
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, DefaultManifest(), m)
}

func TestDefaultManifest_PreservesRawTreeInput(t *testing.T) {
	m := DefaultManifest()
	require.NoError(t, m.Validate())
	assert.Equal(t, InputRaw, m.Members[0].Input)
	assert.Equal(t, InputScaled, m.Members[1].Input)
	assert.Equal(t, InputScaled, m.Members[2].Input)
}

func TestReadManifest_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		errMsg string
	}{
		{"not yaml", "models: [", "parse manifest"},
		{"no scaler", "models: []", "scaler"},
		{"two models", `
scaler: s.json
models:
  - {name: a, kind: svc, path: a.json, input: raw}
  - {name: b, kind: mlp, path: b.json, input: scaled}
`, "expected 3 models"},
		{"bad input", `
scaler: s.json
models:
  - {name: a, kind: svc, path: a.json, input: normalized}
  - {name: b, kind: mlp, path: b.json, input: scaled}
  - {name: c, kind: mlp, path: c.json, input: scaled}
`, "input must be"},
		{"bad kind", `
scaler: s.json
models:
  - {name: a, kind: knn, path: a.json, input: raw}
  - {name: b, kind: mlp, path: b.json, input: scaled}
  - {name: c, kind: mlp, path: c.json, input: scaled}
`, "unknown kind"},
		{"duplicate", `
scaler: s.json
models:
  - {name: a, kind: svc, path: a.json, input: raw}
  - {name: a, kind: mlp, path: b.json, input: scaled}
  - {name: c, kind: mlp, path: c.json, input: scaled}
`, "listed twice"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "manifest.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.body), 0o600))

			_, found, err := ReadManifest(path)
			require.Error(t, err)
			assert.True(t, found)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestResolve(t *testing.T) {
	assert.Equal(t, filepath.Join("model", "a.json"), resolve("model", "a.json"))
	abs := filepath.Join(string(filepath.Separator), "srv", "a.json")
	assert.Equal(t, abs, resolve("model", abs))
}
