package backup

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/refakt/domain"
	"github.com/ludo-technologies/refakt/internal/constants"
)

func newTestManager(t *testing.T) (*Manager, string) {
	t.Helper()
	dir := t.TempDir()
	m := NewManager(dir)
	m.now = func() time.Time {
		return time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	}
	return m, dir
}

func writeProjectFile(t *testing.T, root, name, content string) string {
	t.Helper()
	path := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCreateBackup_CopiesFilesAndMetadata(t *testing.T) {
	m, root := newTestManager(t)
	a := writeProjectFile(t, root, "a.py", "x = 1\n")
	b := writeProjectFile(t, root, "sub/b.py", "y = 2\n")

	id, err := m.CreateBackup([]string{a, b}, &domain.DeduplicationMetadata{
		DuplicateGroupID: "group-1",
		Strategy:         "extract_function",
	})
	require.NoError(t, err)
	assert.Equal(t, "dedup-20250314-092653.000000", id)

	copied, err := os.ReadFile(filepath.Join(root, constants.BackupDirName, id, "a.py"))
	require.NoError(t, err)
	assert.Equal(t, "x = 1\n", string(copied))

	_, err = os.Stat(filepath.Join(root, constants.BackupDirName, id, "sub", "b.py"))
	assert.NoError(t, err)

	metadata, err := m.readMetadata(id)
	require.NoError(t, err)
	assert.Equal(t, id, metadata.BackupID)
	assert.Equal(t, domain.BackupTypeDeduplication, metadata.BackupType)
	assert.Len(t, metadata.Files, 2)
	assert.Equal(t, "group-1", metadata.Deduplication.DuplicateGroupID)
	assert.Len(t, metadata.Deduplication.OriginalHashes, 2)
}

func TestCreateBackup_SkipsMissingFiles(t *testing.T) {
	m, root := newTestManager(t)
	a := writeProjectFile(t, root, "a.py", "x = 1\n")

	id, err := m.CreateBackup([]string{a, filepath.Join(root, "absent.py")}, nil)
	require.NoError(t, err)

	metadata, err := m.readMetadata(id)
	require.NoError(t, err)
	assert.Len(t, metadata.Files, 1)
}

func TestCreateBackup_CollisionSuffix(t *testing.T) {
	m, root := newTestManager(t)
	a := writeProjectFile(t, root, "a.py", "x = 1\n")

	first, err := m.CreateBackup([]string{a}, nil)
	require.NoError(t, err)
	second, err := m.CreateBackup([]string{a}, nil)
	require.NoError(t, err)

	assert.Equal(t, "dedup-20250314-092653.000000", first)
	assert.Equal(t, "dedup-20250314-092653.000000-1", second)
}

func TestCreateBackup_MicrosecondID(t *testing.T) {
	m, root := newTestManager(t)
	a := writeProjectFile(t, root, "a.py", "x = 1\n")

	m.now = func() time.Time {
		return time.Date(2025, 3, 14, 9, 26, 53, 123456000, time.UTC)
	}

	id, err := m.CreateBackup([]string{a}, nil)
	require.NoError(t, err)
	assert.Equal(t, "dedup-20250314-092653.123456", id)
}

func TestRollback_RestoresOriginals(t *testing.T) {
	m, root := newTestManager(t)
	a := writeProjectFile(t, root, "a.py", "original\n")

	id, err := m.CreateBackup([]string{a}, nil)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(a, []byte("mutated\n"), 0o644))

	restored, err := m.Rollback(id)
	require.NoError(t, err)
	assert.Equal(t, []string{a}, restored)

	data, err := os.ReadFile(a)
	require.NoError(t, err)
	assert.Equal(t, "original\n", string(data))

	// Running it again is harmless.
	restored, err = m.Rollback(id)
	require.NoError(t, err)
	assert.Equal(t, []string{a}, restored)
}

func TestRollback_MissingCopySkipped(t *testing.T) {
	m, root := newTestManager(t)
	a := writeProjectFile(t, root, "a.py", "original\n")

	id, err := m.CreateBackup([]string{a}, nil)
	require.NoError(t, err)
	require.NoError(t, os.Remove(filepath.Join(root, constants.BackupDirName, id, "a.py")))

	restored, err := m.Rollback(id)
	require.NoError(t, err)
	assert.Empty(t, restored)
}

func TestRollback_UnknownBackup(t *testing.T) {
	m, _ := newTestManager(t)

	_, err := m.Rollback("dedup-19990101-000000")
	require.Error(t, err)

	var derr domain.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, domain.ErrCodeBackupNotFound, derr.Code)
}

func TestVerifyIntegrity_ValidBackup(t *testing.T) {
	m, root := newTestManager(t)
	a := writeProjectFile(t, root, "a.py", "x = 1\n")

	id, err := m.CreateBackup([]string{a}, nil)
	require.NoError(t, err)

	report := m.VerifyIntegrity(id)
	assert.True(t, report.Valid)
	assert.Equal(t, 1, report.FilesVerified)
	assert.Empty(t, report.Issues)
}

func TestVerifyIntegrity_TamperedCopy(t *testing.T) {
	m, root := newTestManager(t)
	a := writeProjectFile(t, root, "a.py", "x = 1\n")

	id, err := m.CreateBackup([]string{a}, nil)
	require.NoError(t, err)

	backupCopy := filepath.Join(root, constants.BackupDirName, id, "a.py")
	require.NoError(t, os.WriteFile(backupCopy, []byte("tampered\n"), 0o644))

	report := m.VerifyIntegrity(id)
	require.False(t, report.Valid)
	require.Len(t, report.Issues, 1)
	assert.Equal(t, "hash mismatch", report.Issues[0].Problem)
}

func TestVerifyIntegrity_MissingCopy(t *testing.T) {
	m, root := newTestManager(t)
	a := writeProjectFile(t, root, "a.py", "x = 1\n")

	id, err := m.CreateBackup([]string{a}, nil)
	require.NoError(t, err)
	require.NoError(t, os.Remove(filepath.Join(root, constants.BackupDirName, id, "a.py")))

	report := m.VerifyIntegrity(id)
	require.False(t, report.Valid)
	require.Len(t, report.Issues, 1)
	assert.Equal(t, "backup copy missing", report.Issues[0].Problem)
}

func TestVerifyIntegrity_UnknownBackup(t *testing.T) {
	m, _ := newTestManager(t)

	report := m.VerifyIntegrity("dedup-19990101-000000")
	require.False(t, report.Valid)
	require.Len(t, report.Issues, 1)
	assert.Equal(t, "metadata missing or unreadable", report.Issues[0].Problem)
}

func TestCleanupOldBackups(t *testing.T) {
	m, root := newTestManager(t)
	a := writeProjectFile(t, root, "a.py", "x = 1\n")

	old, err := m.CreateBackup([]string{a}, nil)
	require.NoError(t, err)

	// A fresh backup created "now" plus one created 40 days earlier.
	m.now = func() time.Time {
		return time.Date(2025, 4, 23, 9, 26, 53, 0, time.UTC)
	}
	fresh, err := m.CreateBackup([]string{a}, nil)
	require.NoError(t, err)

	removed, err := m.CleanupOldBackups(30)
	require.NoError(t, err)
	assert.Equal(t, []string{old}, removed)

	infos, err := m.ListBackups()
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, fresh, infos[0].BackupID)
}

func TestCleanupOldBackups_RemovalFailureContinues(t *testing.T) {
	m, root := newTestManager(t)
	a := writeProjectFile(t, root, "a.py", "x = 1\n")

	stuck, err := m.CreateBackup([]string{a}, nil)
	require.NoError(t, err)

	m.now = func() time.Time {
		return time.Date(2025, 3, 15, 9, 26, 53, 0, time.UTC)
	}
	removable, err := m.CreateBackup([]string{a}, nil)
	require.NoError(t, err)

	m.now = func() time.Time {
		return time.Date(2025, 4, 23, 9, 26, 53, 0, time.UTC)
	}
	m.removeAll = func(path string) error {
		if filepath.Base(path) == stuck {
			return errors.New("device busy")
		}
		return os.RemoveAll(path)
	}

	removed, err := m.CleanupOldBackups(30)
	require.NoError(t, err)
	assert.Equal(t, []string{removable}, removed)

	// The backup that could not be removed stays in place.
	infos, err := m.ListBackups()
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, stuck, infos[0].BackupID)
}

func TestCleanupOldBackups_NothingToRemove(t *testing.T) {
	m, _ := newTestManager(t)

	removed, err := m.CleanupOldBackups(30)
	require.NoError(t, err)
	assert.Empty(t, removed)
}

func TestListBackups_NewestFirstAndCorruptMarked(t *testing.T) {
	m, root := newTestManager(t)
	a := writeProjectFile(t, root, "a.py", "x = 1\n")

	older, err := m.CreateBackup([]string{a}, nil)
	require.NoError(t, err)

	m.now = func() time.Time {
		return time.Date(2025, 3, 15, 9, 26, 53, 0, time.UTC)
	}
	newer, err := m.CreateBackup([]string{a}, nil)
	require.NoError(t, err)

	corruptDir := filepath.Join(root, constants.BackupDirName, "dedup-20250316-000000")
	require.NoError(t, os.MkdirAll(corruptDir, 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(corruptDir, constants.BackupMetadataFile), []byte("{not json"), 0o644))

	infos, err := m.ListBackups()
	require.NoError(t, err)
	require.Len(t, infos, 3)

	assert.Equal(t, newer, infos[0].BackupID)
	assert.True(t, infos[0].Valid)
	assert.Equal(t, 1, infos[0].FileCount)
	assert.Greater(t, infos[0].TotalBytes, int64(0))
	assert.Equal(t, older, infos[1].BackupID)

	// The corrupt entry has no timestamp and sorts last.
	assert.Equal(t, "dedup-20250316-000000", infos[2].BackupID)
	assert.False(t, infos[2].Valid)
}

func TestListBackups_EmptyProject(t *testing.T) {
	m, _ := newTestManager(t)

	infos, err := m.ListBackups()
	require.NoError(t, err)
	assert.Empty(t, infos)
}
