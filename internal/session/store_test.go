package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cover-agent/internal/types"
)

func TestStore_PutGet(t *testing.T) {
	store := NewStore()

	require.NoError(t, store.Put(KeyJobURL, "https://example.com/jobs/1"))
	assert.Equal(t, "https://example.com/jobs/1", store.GetString(KeyJobURL))
	assert.True(t, store.Has(KeyJobURL))
	assert.False(t, store.Has(KeyJobDescription))
}

func TestStore_Put_WriteOnce(t *testing.T) {
	store := NewStore()

	require.NoError(t, store.Put(KeyJobDescription, "first"))
	err := store.Put(KeyJobDescription, "second")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrKeyExists)
	assert.Equal(t, "first", store.GetString(KeyJobDescription))
}

func TestStore_Replace(t *testing.T) {
	store := NewStore()

	store.Replace(KeySaveStatusText, "failed")
	store.Replace(KeySaveStatusText, "saved")
	assert.Equal(t, "saved", store.GetString(KeySaveStatusText))
}

func TestStore_Missing(t *testing.T) {
	store := NewStore()
	require.NoError(t, store.Put(KeyResumeRecord, &types.ResumeRecord{}))

	missing := store.Missing(KeyResumeRecord, KeyJobResearch)
	assert.Equal(t, []string{KeyJobResearch}, missing)

	assert.Nil(t, store.Missing(KeyResumeRecord))
}

func TestStore_TypedAccessors(t *testing.T) {
	store := NewStore()

	_, ok := store.Resume()
	assert.False(t, ok)

	resume := &types.ResumeRecord{PersonalInfo: types.PersonalInfo{Name: "Jane Doe"}}
	require.NoError(t, store.Put(KeyResumeRecord, resume))

	got, ok := store.Resume()
	require.True(t, ok)
	assert.Equal(t, "Jane Doe", got.PersonalInfo.Name)
}

func TestStore_SessionIDsAreUnique(t *testing.T) {
	a, b := NewStore(), NewStore()
	assert.NotEmpty(t, a.ID())
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestStore_Snapshot(t *testing.T) {
	store := NewStore()
	require.NoError(t, store.Put(KeyResumeRecord, &types.ResumeRecord{
		PersonalInfo: types.PersonalInfo{Name: "Jane Doe"},
	}))
	require.NoError(t, store.Put(KeyJobDescription, "An engineering role."))

	snap := store.Snapshot()
	assert.Equal(t, store.ID(), snap.SessionID)
	require.NotNil(t, snap.ResumeAnalysis)
	assert.Equal(t, "Jane Doe", snap.ResumeAnalysis.PersonalInfo.Name)
	assert.Equal(t, "An engineering role.", snap.JobDescription)
	assert.Nil(t, snap.JobResearch)
}

func TestStore_WriteSnapshot(t *testing.T) {
	store := NewStore()
	require.NoError(t, store.Put(KeyJobURL, "https://example.com/jobs/1"))

	dir := t.TempDir()
	path, err := store.WriteSnapshot(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "session_"+store.ID()+".json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var snap Snapshot
	require.NoError(t, json.Unmarshal(data, &snap))
	assert.Equal(t, "https://example.com/jobs/1", snap.JobURL)
}
