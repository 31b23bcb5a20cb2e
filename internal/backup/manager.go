package backup

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ludo-technologies/refakt/domain"
	"github.com/ludo-technologies/refakt/internal/constants"
)

// Manager implements domain.BackupManager on a directory tree rooted at
// <project>/.ast-grep-backups/. Each backup is one subdirectory holding file
// copies at their project-relative paths plus a metadata record.
type Manager struct {
	projectRoot string

	// now and removeAll are swappable in tests.
	now       func() time.Time
	removeAll func(string) error
}

// NewManager creates a backup manager rooted at the given project directory.
func NewManager(projectRoot string) *Manager {
	return &Manager{
		projectRoot: projectRoot,
		now:         time.Now,
		removeAll:   os.RemoveAll,
	}
}

func (m *Manager) backupRoot() string {
	return filepath.Join(m.projectRoot, constants.BackupDirName)
}

func (m *Manager) backupDir(backupID string) string {
	return filepath.Join(m.backupRoot(), backupID)
}

// CreateBackup copies the given files into a fresh backup directory and
// writes the metadata record. Files that do not exist are skipped. The
// returned id is collision-resolved with a numeric suffix.
func (m *Manager) CreateBackup(files []string, meta *domain.DeduplicationMetadata) (string, error) {
	backupID, dir, err := m.reserveBackupDir()
	if err != nil {
		return "", err
	}

	metadata := &domain.BackupMetadata{
		BackupID:      backupID,
		Timestamp:     m.now().Format(time.RFC3339Nano),
		BackupType:    domain.BackupTypeDeduplication,
		Files:         []domain.BackupFileRecord{},
		Deduplication: meta,
	}
	if metadata.Deduplication == nil {
		metadata.Deduplication = &domain.DeduplicationMetadata{}
	}
	if metadata.Deduplication.OriginalHashes == nil {
		metadata.Deduplication.OriginalHashes = make(map[string]string)
	}

	for _, path := range files {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}

		rel := m.relativePath(path)
		dst := filepath.Join(dir, rel)
		if err := copyFile(path, dst); err != nil {
			return "", domain.NewBackupError(
				fmt.Sprintf("failed to copy %s into backup %s", path, backupID), err)
		}

		hash, err := hashFile(dst)
		if err != nil {
			return "", domain.NewBackupError(
				fmt.Sprintf("failed to hash backup copy of %s", path), err)
		}

		metadata.Files = append(metadata.Files, domain.BackupFileRecord{
			Original: path,
			Backup:   dst,
			Relative: rel,
		})
		metadata.Deduplication.OriginalHashes[rel] = hash
	}

	if err := m.writeMetadata(dir, metadata); err != nil {
		return "", err
	}
	return backupID, nil
}

// reserveBackupDir picks the next free timestamped id and creates its
// directory. Concurrent creations in the same microsecond resolve through
// the numeric suffix loop.
func (m *Manager) reserveBackupDir() (string, string, error) {
	base := fmt.Sprintf("%s-%s", constants.BackupIDPrefix, m.now().Format("20060102-150405.000000"))

	candidate := base
	for suffix := 1; ; suffix++ {
		dir := m.backupDir(candidate)
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return "", "", domain.NewBackupError("failed to create backup directory", err)
			}
			return candidate, dir, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, suffix)
	}
}

// Rollback restores every recorded file from its backup copy. Copies that
// disappeared are skipped, and a single failed restore is dropped from the
// returned list rather than raised. Running it twice is harmless.
func (m *Manager) Rollback(backupID string) ([]string, error) {
	metadata, err := m.readMetadata(backupID)
	if err != nil {
		return nil, err
	}

	restored := make([]string, 0, len(metadata.Files))
	for _, record := range metadata.Files {
		if _, err := os.Stat(record.Backup); err != nil {
			continue
		}
		if err := copyFile(record.Backup, record.Original); err != nil {
			continue
		}
		restored = append(restored, record.Original)
	}
	return restored, nil
}

// VerifyIntegrity re-hashes every backup copy against the recorded hash. An
// unknown or corrupt backup yields an invalid report instead of an error.
func (m *Manager) VerifyIntegrity(backupID string) *domain.IntegrityReport {
	report := &domain.IntegrityReport{Issues: []domain.IntegrityIssue{}}

	metadata, err := m.readMetadata(backupID)
	if err != nil {
		report.Issues = append(report.Issues, domain.IntegrityIssue{
			Path:    backupID,
			Problem: "metadata missing or unreadable",
		})
		return report
	}

	hashes := map[string]string{}
	if metadata.Deduplication != nil {
		hashes = metadata.Deduplication.OriginalHashes
	}

	for _, record := range metadata.Files {
		if _, err := os.Stat(record.Backup); err != nil {
			report.Issues = append(report.Issues, domain.IntegrityIssue{
				Path:    record.Relative,
				Problem: "backup copy missing",
			})
			continue
		}

		expected, ok := hashes[record.Relative]
		if !ok {
			report.Issues = append(report.Issues, domain.IntegrityIssue{
				Path:    record.Relative,
				Problem: "no recorded hash",
			})
			continue
		}

		actual, err := hashFile(record.Backup)
		if err != nil {
			report.Issues = append(report.Issues, domain.IntegrityIssue{
				Path:    record.Relative,
				Problem: fmt.Sprintf("cannot hash backup copy: %v", err),
			})
			continue
		}
		if actual != expected {
			report.Issues = append(report.Issues, domain.IntegrityIssue{
				Path:    record.Relative,
				Problem: "hash mismatch",
			})
			continue
		}
		report.FilesVerified++
	}

	report.Valid = len(report.Issues) == 0
	return report
}

// CleanupOldBackups removes every backup older than the retention window and
// returns the removed ids. A removal failure for one backup does not stop
// the sweep; the failed backup is left in place and excluded from the
// returned list.
func (m *Manager) CleanupOldBackups(retentionDays int) ([]string, error) {
	if retentionDays <= 0 {
		retentionDays = constants.DefaultBackupRetentionDays
	}
	cutoff := time.Duration(retentionDays) * 24 * time.Hour
	now := m.now()

	entries, err := os.ReadDir(m.backupRoot())
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, domain.NewBackupError("failed to read backup directory", err)
	}

	removed := []string{}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		metadata, err := m.readMetadata(entry.Name())
		if err != nil {
			continue
		}
		age := metadata.Age(now)
		if age == 0 || age <= cutoff {
			continue
		}
		if err := m.removeAll(m.backupDir(entry.Name())); err != nil {
			continue
		}
		removed = append(removed, entry.Name())
	}

	sort.Strings(removed)
	return removed, nil
}

// ListBackups enumerates all backups newest first. Entries whose metadata is
// missing or unparseable are listed as invalid instead of being dropped.
func (m *Manager) ListBackups() ([]*domain.BackupInfo, error) {
	entries, err := os.ReadDir(m.backupRoot())
	if err != nil {
		if os.IsNotExist(err) {
			return []*domain.BackupInfo{}, nil
		}
		return nil, domain.NewBackupError("failed to read backup directory", err)
	}

	infos := make([]*domain.BackupInfo, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), constants.BackupIDPrefix) {
			continue
		}

		info := &domain.BackupInfo{BackupID: entry.Name()}
		metadata, err := m.readMetadata(entry.Name())
		if err != nil {
			infos = append(infos, info)
			continue
		}

		info.Timestamp = metadata.Timestamp
		info.BackupType = metadata.BackupType
		info.FileCount = len(metadata.Files)
		info.TotalBytes = backupSize(metadata)
		info.Valid = true
		infos = append(infos, info)
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Timestamp > infos[j].Timestamp
	})
	return infos, nil
}

func backupSize(metadata *domain.BackupMetadata) int64 {
	var total int64
	for _, record := range metadata.Files {
		if info, err := os.Stat(record.Backup); err == nil {
			total += info.Size()
		}
	}
	return total
}

func (m *Manager) writeMetadata(dir string, metadata *domain.BackupMetadata) error {
	data, err := json.MarshalIndent(metadata, "", "  ")
	if err != nil {
		return domain.NewBackupError("failed to encode backup metadata", err)
	}
	path := filepath.Join(dir, constants.BackupMetadataFile)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return domain.NewBackupError("failed to write backup metadata", err)
	}
	return nil
}

func (m *Manager) readMetadata(backupID string) (*domain.BackupMetadata, error) {
	path := filepath.Join(m.backupDir(backupID), constants.BackupMetadataFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.NewBackupNotFoundError(backupID)
	}
	var metadata domain.BackupMetadata
	if err := json.Unmarshal(data, &metadata); err != nil {
		return nil, domain.NewBackupError(
			fmt.Sprintf("corrupt metadata for backup %s", backupID), err)
	}
	return &metadata, nil
}

// relativePath maps an absolute or project-relative original path to its
// location inside the backup directory.
func (m *Manager) relativePath(path string) string {
	if rel, err := filepath.Rel(m.projectRoot, path); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return filepath.Base(path)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
