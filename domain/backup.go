package domain

import (
	"time"
)

// BackupType identifies what kind of operation a backup protects.
type BackupType string

const (
	// BackupTypeDeduplication is the backup type written by the
	// deduplication apply pipeline.
	BackupTypeDeduplication BackupType = "deduplication"
)

// BackupFileRecord maps one backed-up file to its copy.
type BackupFileRecord struct {
	Original string `json:"original" yaml:"original"`
	Backup   string `json:"backup" yaml:"backup"`
	Relative string `json:"relative" yaml:"relative"`
}

// DeduplicationMetadata is the caller-supplied context stored with a backup.
type DeduplicationMetadata struct {
	DuplicateGroupID string            `json:"duplicate_group_id" yaml:"duplicate_group_id"`
	Strategy         string            `json:"strategy" yaml:"strategy"`
	OriginalHashes   map[string]string `json:"original_hashes" yaml:"original_hashes"`
	AffectedFiles    []string          `json:"affected_files" yaml:"affected_files"`
}

// BackupMetadata is the record written to backup-metadata.json.
type BackupMetadata struct {
	BackupID      string                 `json:"backup_id" yaml:"backup_id"`
	Timestamp     string                 `json:"timestamp" yaml:"timestamp"` // ISO-8601
	BackupType    BackupType             `json:"backup_type" yaml:"backup_type"`
	Files         []BackupFileRecord     `json:"files" yaml:"files"`
	Deduplication *DeduplicationMetadata `json:"deduplication_metadata,omitempty" yaml:"deduplication_metadata,omitempty"`
}

// Age returns the backup age relative to now, or zero when the timestamp
// cannot be parsed.
func (m *BackupMetadata) Age(now time.Time) time.Duration {
	if m.Timestamp == "" {
		return 0
	}
	ts, err := time.Parse(time.RFC3339Nano, m.Timestamp)
	if err != nil {
		return 0
	}
	return now.Sub(ts)
}

// IntegrityIssue describes one verification finding.
type IntegrityIssue struct {
	Path    string `json:"path" yaml:"path"`
	Problem string `json:"problem" yaml:"problem"`
}

// IntegrityReport is the outcome of verifying a backup's hashes.
type IntegrityReport struct {
	Valid         bool             `json:"valid" yaml:"valid"`
	FilesVerified int              `json:"files_verified" yaml:"files_verified"`
	Issues        []IntegrityIssue `json:"issues" yaml:"issues"`
}

// BackupInfo is the listing entry for one backup.
type BackupInfo struct {
	BackupID   string     `json:"backup_id" yaml:"backup_id"`
	Timestamp  string     `json:"timestamp" yaml:"timestamp"`
	BackupType BackupType `json:"backup_type" yaml:"backup_type"`
	FileCount  int        `json:"file_count" yaml:"file_count"`
	TotalBytes int64      `json:"total_bytes" yaml:"total_bytes"`
	Valid      bool       `json:"valid" yaml:"valid"`
}

// BackupManager snapshots files before mutation and restores them on demand.
// The on-disk layout is <project>/.ast-grep-backups/<backup_id>/ with one
// copy per file at its original relative path plus a metadata record.
type BackupManager interface {
	// CreateBackup snapshots the given files. Nonexistent files are
	// silently skipped. Returns the collision-resolved backup id.
	CreateBackup(files []string, meta *DeduplicationMetadata) (string, error)

	// Rollback restores recorded files from the backup. Missing copies are
	// skipped; a single-file restore failure is excluded from the returned
	// list, never raised. Idempotent.
	Rollback(backupID string) ([]string, error)

	// VerifyIntegrity re-hashes backup copies against recorded hashes. An
	// unknown id yields an invalid report, never an error.
	VerifyIntegrity(backupID string) *IntegrityReport

	// CleanupOldBackups removes backups older than the retention window.
	// Returns the ids removed.
	CleanupOldBackups(retentionDays int) ([]string, error)

	// ListBackups enumerates backups, marking corrupt entries invalid.
	ListBackups() ([]*BackupInfo, error)
}
