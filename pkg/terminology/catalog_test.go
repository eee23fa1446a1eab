package terminology

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	cat := DefaultCatalog()

	assert.ElementsMatch(t, []string{"8310-5", "8320-5", "8331-1"}, cat.Codes(KeyTemperature))
	assert.True(t, cat.Codes("SPO2").Contains("59408-5"))
	assert.Nil(t, cat.Codes("glucose"))
	assert.Equal(t, "Unknown medication", cat.Labels.UnknownMedication)
}

func TestLoadMergesWithDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	content := `
concepts:
  heart-rate:
    display: Pulse
    loinc: ["8867-4", "8889-8"]
labels:
  high: Elevated
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cat, err := Load(path)
	require.NoError(t, err)

	hr, ok := cat.Lookup(KeyHeartRate)
	require.True(t, ok)
	assert.Equal(t, "Pulse", hr.Display)
	assert.True(t, hr.Codes().Contains("8889-8"))

	// untouched concepts and labels keep their defaults
	assert.NotEmpty(t, cat.Codes(KeyDiastolicBP))
	assert.Equal(t, "Elevated", cat.Labels.High)
	assert.Equal(t, "Critical high", cat.Labels.CriticalHigh)
}

func TestLoadRejectsEmptyCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(path, []byte("labels:\n  high: H\n"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadWithoutPath(t *testing.T) {
	cat, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultCatalog().Labels, cat.Labels)
}
