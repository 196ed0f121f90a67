package prefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDraftRoundTrip(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)

	d, err := LoadDraft("contact")
	require.NoError(t, err)
	require.Nil(t, d)

	require.NoError(t, SaveDraft("contact", Draft{"phone": "555", "zip": ""}))
	require.NoError(t, SaveDraft("payment", Draft{"card": "4111"}))

	d, err = LoadDraft("contact")
	require.NoError(t, err)
	require.Equal(t, Draft{"phone": "555", "zip": ""}, d)

	require.NoError(t, ClearDraft("contact"))
	d, err = LoadDraft("contact")
	require.NoError(t, err)
	require.Nil(t, d)

	d, err = LoadDraft("payment")
	require.NoError(t, err)
	require.Equal(t, "4111", d["card"])

	_, err = os.Stat(filepath.Join(dir, "jaskmask", "drafts.json"))
	require.NoError(t, err)
}

func TestSaveEmptyDraftClears(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)

	require.NoError(t, SaveDraft("contact", Draft{"phone": "555"}))
	require.NoError(t, SaveDraft("contact", Draft{"phone": ""}))
	d, err := LoadDraft("contact")
	require.NoError(t, err)
	require.Nil(t, d)
}
