package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/keyframe-studio/keyframe/internal/command"
	"github.com/keyframe-studio/keyframe/internal/errors"
	"github.com/keyframe-studio/keyframe/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper to create an in-memory database for testing
func setupTestDB(t *testing.T) *DB {
	db, err := Open(Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func newElement(id string, layer int) *model.Element {
	return model.NewElement(id, id, "sprite", model.Position{X: 1, Y: 2}, layer)
}

// =============================================================================
// DB Tests
// =============================================================================

func TestOpenClose(t *testing.T) {
	t.Run("in_memory", func(t *testing.T) {
		db, err := Open(Options{InMemory: true})
		require.NoError(t, err)
		assert.True(t, db.InMemory())
		assert.Equal(t, "", db.Path())
		assert.NoError(t, db.Close())
	})

	t.Run("empty_path_uses_in_memory", func(t *testing.T) {
		db, err := Open(Options{Path: ""})
		require.NoError(t, err)
		assert.True(t, db.InMemory())
		db.Close()
	})

	t.Run("on_disk", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "nested", "db")
		db, err := Open(Options{Path: dbPath})
		require.NoError(t, err)
		defer db.Close()

		assert.Equal(t, dbPath, db.Path())
		assert.False(t, db.InMemory())
		info, err := os.Stat(dbPath)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})
}

func TestPersistsAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "db")

	db, err := Open(Options{Path: dbPath})
	require.NoError(t, err)
	require.NoError(t, NewElementRepo(db).Add(newElement("hero", 0)))
	require.NoError(t, db.Close())

	db, err = Open(Options{Path: dbPath})
	require.NoError(t, err)
	defer db.Close()

	el, err := NewElementRepo(db).Get("hero")
	require.NoError(t, err)
	assert.Equal(t, "hero", el.ID)
}

func TestDefaultPath(t *testing.T) {
	path := DefaultPath()
	assert.Contains(t, path, "keyframe")
	assert.Equal(t, "db", filepath.Base(path))
}

// =============================================================================
// CRUD Tests
// =============================================================================

func TestGetMissingKey(t *testing.T) {
	db := setupTestDB(t)

	err := db.Get("element:none", &model.Element{})
	assert.True(t, IsErrKeyNotFound(err))
	assert.True(t, IsErrKeyNotFound(badger.ErrKeyNotFound))
	assert.False(t, IsErrKeyNotFound(fmt.Errorf("other")))
}

func TestSetGetDelete(t *testing.T) {
	db := setupTestDB(t)
	el := newElement("hero", 0)

	require.NoError(t, db.Set(el))

	ok, err := db.Exists(el.Key)
	require.NoError(t, err)
	assert.True(t, ok)

	var back model.Element
	require.NoError(t, db.Get(el.Key, &back))
	assert.Equal(t, el.Key, back.Key)

	require.NoError(t, db.Delete(el.Key))
	ok, err = db.Exists(el.Key)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGetUndecodableRecord(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte("element:bad"), []byte("{not json"))
	}))

	err := db.Get("element:bad", &model.Element{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrDatabaseCorrupted))
}

func TestListByPrefix(t *testing.T) {
	db := setupTestDB(t)
	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, db.Set(newElement(id, 0)))
	}
	require.NoError(t, db.Set(model.NewSettings()))

	keys, err := db.ListByPrefix("element:")
	require.NoError(t, err)
	assert.Equal(t, []string{"element:a", "element:b", "element:c"}, keys)

	keys, err = db.ListByPrefix("missing:")
	require.NoError(t, err)
	assert.Empty(t, keys)
}

// =============================================================================
// ElementRepo Tests
// =============================================================================

func TestElementRepoImplementsStore(t *testing.T) {
	var _ command.Store = &ElementRepo{}
}

func TestElementRepoAdd(t *testing.T) {
	repo := NewElementRepo(setupTestDB(t))

	require.NoError(t, repo.Add(newElement("hero", 0)))

	err := repo.Add(newElement("hero", 1))
	assert.True(t, errors.Is(err, errors.ErrElementExists))

	n, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestElementRepoGetUpdateRemove(t *testing.T) {
	repo := NewElementRepo(setupTestDB(t))
	el := newElement("hero", 0)
	require.NoError(t, el.SetProperty("opacity", 0.5))
	require.NoError(t, repo.Add(el))

	got, err := repo.Get("hero")
	require.NoError(t, err)
	assert.Equal(t, 0.5, got.Properties["opacity"])

	got.Position = model.Position{X: 9, Y: 9}
	require.NoError(t, repo.Update(got))

	got, err = repo.Get("hero")
	require.NoError(t, err)
	assert.Equal(t, model.Position{X: 9, Y: 9}, got.Position)

	removed, err := repo.Remove("hero")
	require.NoError(t, err)
	assert.Equal(t, "hero", removed.ID)

	ok, err := repo.Exists("hero")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestElementRepoMissing(t *testing.T) {
	repo := NewElementRepo(setupTestDB(t))

	_, err := repo.Get("ghost")
	assert.True(t, errors.Is(err, errors.ErrElementNotFound))

	_, err = repo.Remove("ghost")
	assert.True(t, errors.Is(err, errors.ErrElementNotFound))

	err = repo.Update(newElement("ghost", 0))
	assert.True(t, errors.Is(err, errors.ErrElementNotFound))
}

func TestElementRepoListOrdering(t *testing.T) {
	repo := NewElementRepo(setupTestDB(t))
	require.NoError(t, repo.Add(newElement("b", 1)))
	require.NoError(t, repo.Add(newElement("a", 2)))
	require.NoError(t, repo.Add(newElement("c", 1)))

	els, err := repo.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, ids(els))

	els, err = repo.ListByLayer()
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c", "a"}, ids(els))
}

func TestElementRepoDrivesCommands(t *testing.T) {
	repo := NewElementRepo(setupTestDB(t))

	add := command.NewAddElement(repo, newElement("hero", 0))
	require.NoError(t, add.Execute())

	move := command.NewMoveElement(repo, "hero", model.Position{X: 1, Y: 2}, model.Position{X: 5, Y: 6})
	require.NoError(t, move.Execute())

	got, err := repo.Get("hero")
	require.NoError(t, err)
	assert.Equal(t, model.Position{X: 5, Y: 6}, got.Position)

	require.NoError(t, move.Undo())
	require.NoError(t, add.Undo())

	n, err := repo.Count()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func ids(els []*model.Element) []string {
	out := make([]string, len(els))
	for i, el := range els {
		out[i] = el.ID
	}
	return out
}

// =============================================================================
// HistoryRepo / SettingsRepo Tests
// =============================================================================

func TestHistoryRepo(t *testing.T) {
	repo := NewHistoryRepo(setupTestDB(t))

	state, err := repo.Get()
	require.NoError(t, err)
	assert.Nil(t, state)

	saved := model.NewHistoryState([]model.CommandRecord{{Kind: model.KindCheckpoint, ID: "c1", Description: "Checkpoint: start"}}, nil)
	require.NoError(t, repo.Save(saved))

	state, err = repo.Get()
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, model.KeyHistory, state.Key)
	require.Len(t, state.Undo, 1)
	assert.Equal(t, "c1", state.Undo[0].ID)

	require.NoError(t, repo.Clear())
	state, err = repo.Get()
	require.NoError(t, err)
	assert.Nil(t, state)
}

func TestSettingsRepo(t *testing.T) {
	repo := NewSettingsRepo(setupTestDB(t))

	s, err := repo.Get()
	require.NoError(t, err)
	assert.Nil(t, s.MaxHistory)

	max := 25
	s.MaxHistory = &max
	require.NoError(t, repo.Save(s))

	s, err = repo.Get()
	require.NoError(t, err)
	require.NotNil(t, s.MaxHistory)
	assert.Equal(t, 25, *s.MaxHistory)
}

// =============================================================================
// Safety Tests
// =============================================================================

func TestDiskSpaceInfo(t *testing.T) {
	assert.Equal(t, 0.0, (&DiskSpaceInfo{TotalBytes: 0, FreeBytes: 100}).FreePercent())
	assert.Equal(t, 25.0, (&DiskSpaceInfo{TotalBytes: 1000, FreeBytes: 250}).FreePercent())
}

func TestGetDiskSpace(t *testing.T) {
	info, err := GetDiskSpace(t.TempDir())
	require.NoError(t, err)
	assert.Greater(t, info.TotalBytes, uint64(0))

	info, err = GetDiskSpace(filepath.Join(t.TempDir(), "missing", "deeper"))
	require.NoError(t, err)
	assert.NotEmpty(t, info.Path)
}

func TestCheckDiskSpace(t *testing.T) {
	assert.NoError(t, CheckDiskSpace(t.TempDir(), 0))

	err := CheckDiskSpace(t.TempDir(), ^uint64(0))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrDiskFull))
}

func TestCheckDiskSpaceWarning(t *testing.T) {
	assert.Empty(t, CheckDiskSpaceWarning(t.TempDir(), 0))
	assert.Contains(t, CheckDiskSpaceWarning(t.TempDir(), ^uint64(0)), "Low disk space")
}

func TestWriteRefusedWhenVolumeFull(t *testing.T) {
	db, err := Open(Options{Path: filepath.Join(t.TempDir(), "db")})
	require.NoError(t, err)
	defer db.Close()

	db.minFree = ^uint64(0)
	err = NewElementRepo(db).Add(newElement("hero", 0))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrDiskFull))
}

func TestIsDiskFullError(t *testing.T) {
	assert.False(t, isDiskFullError(nil))
	assert.False(t, isDiskFullError(fmt.Errorf("some error")))
}

func TestSafeWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")

	require.NoError(t, SafeWrite(path, []byte(`{"undo":[]}`), 0600))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"undo":[]}`, string(data))

	require.NoError(t, SafeWrite(path, []byte("second"), 0600))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	matches, err := filepath.Glob(filepath.Join(filepath.Dir(path), ".keyframe-*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestEnsureDirectory(t *testing.T) {
	testPath := filepath.Join(t.TempDir(), "subdir", "nested")

	require.NoError(t, EnsureDirectory(testPath))

	info, err := os.Stat(testPath)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

// =============================================================================
// Recovery Tests
// =============================================================================

func TestCheckDatabaseIntegrity(t *testing.T) {
	t.Run("nil_database", func(t *testing.T) {
		status := CheckDatabaseIntegrity(nil)
		assert.False(t, status.Healthy)
		assert.True(t, status.Corrupted)
	})

	t.Run("healthy_database", func(t *testing.T) {
		db := setupTestDB(t)
		require.NoError(t, NewElementRepo(db).Add(newElement("hero", 0)))
		require.NoError(t, NewHistoryRepo(db).Save(model.NewHistoryState(nil, nil)))

		status := CheckDatabaseIntegrity(db)
		assert.True(t, status.Healthy)
		assert.Equal(t, 2, status.Checked)
		assert.NoError(t, db.CheckIntegrity())
	})

	t.Run("damaged_record", func(t *testing.T) {
		db := setupTestDB(t)
		require.NoError(t, db.Update(func(txn *badger.Txn) error {
			return txn.Set([]byte(model.KeyHistory), []byte("garbage"))
		}))

		status := CheckDatabaseIntegrity(db)
		assert.False(t, status.Healthy)
		assert.Equal(t, 1, status.ErrorCount)
		assert.Contains(t, status.Errors[0], model.KeyHistory)

		err := db.CheckIntegrity()
		assert.True(t, errors.Is(err, errors.ErrDatabaseCorrupted))
	})

	t.Run("foreign_keys_ignored", func(t *testing.T) {
		db := setupTestDB(t)
		require.NoError(t, db.Update(func(txn *badger.Txn) error {
			return txn.Set([]byte("other"), []byte("raw bytes"))
		}))
		assert.NoError(t, db.CheckIntegrity())
	})
}

func TestIsDatabaseCorrupted(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"regular", fmt.Errorf("some error"), false},
		{"sentinel", errors.Wrap(errors.ErrDatabaseCorrupted, "open"), true},
		{"checksum", fmt.Errorf("Checksum mismatch detected"), true},
		{"corrupt", fmt.Errorf("data corrupt"), true},
		{"truncated", fmt.Errorf("value log truncated"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDatabaseCorrupted(tt.err))
		})
	}
}
