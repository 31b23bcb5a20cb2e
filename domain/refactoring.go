package domain

import (
	"fmt"
)

// FileCreation describes a file the executor should write.
type FileCreation struct {
	Path    string `json:"path" yaml:"path"`
	Content string `json:"content" yaml:"content"`
	Append  bool   `json:"append" yaml:"append"`
}

// FileUpdate describes an in-place change to an existing file.
type FileUpdate struct {
	Path            string `json:"path" yaml:"path"`
	OldContent      string `json:"old_content,omitempty" yaml:"old_content,omitempty"`
	NewContent      string `json:"new_content,omitempty" yaml:"new_content,omitempty"`
	ImportStatement string `json:"import_statement,omitempty" yaml:"import_statement,omitempty"`
}

// HasReplacement reports whether the update substitutes content.
func (u *FileUpdate) HasReplacement() bool {
	return u.OldContent != "" && u.NewContent != ""
}

// RefactoringPlan is the executable outcome of a recommendation.
type RefactoringPlan struct {
	Strategy      StrategyName    `json:"strategy" yaml:"strategy"`
	GeneratedCode string          `json:"generated_code" yaml:"generated_code"`
	Creations     []*FileCreation `json:"creations" yaml:"creations"`
	Updates       []*FileUpdate   `json:"updates" yaml:"updates"`
	AffectedFiles []string        `json:"affected_files" yaml:"affected_files"`
	GroupID       string          `json:"group_id" yaml:"group_id"`
}

// Validate checks the plan's required fields before any disk access.
func (p *RefactoringPlan) Validate() error {
	if p.Strategy == "" {
		return NewValidationError("refactoring plan requires a strategy")
	}
	if len(p.Creations) == 0 && len(p.Updates) == 0 {
		return NewValidationError("refactoring plan has no file operations")
	}
	return nil
}

// PreviewEntry describes one pending operation in a dry run.
type PreviewEntry struct {
	Path          string `json:"path" yaml:"path"`
	Operation     string `json:"operation" yaml:"operation"` // "create", "append", "update"
	ContentLines  int    `json:"content_lines,omitempty" yaml:"content_lines,omitempty"`
	HasReplace    bool   `json:"has_replace,omitempty" yaml:"has_replace,omitempty"`
	HasImport     bool   `json:"has_import,omitempty" yaml:"has_import,omitempty"`
	DiffPreview   string `json:"diff_preview,omitempty" yaml:"diff_preview,omitempty"`
	SkippedReason string `json:"skipped_reason,omitempty" yaml:"skipped_reason,omitempty"`
}

// ApplyResult reports the outcome of executing a plan.
type ApplyResult struct {
	ModifiedFiles []string        `json:"modified_files" yaml:"modified_files"`
	FailedFiles   []string        `json:"failed_files" yaml:"failed_files"`
	Preview       []*PreviewEntry `json:"preview,omitempty" yaml:"preview,omitempty"`
	DryRun        bool            `json:"dry_run" yaml:"dry_run"`
	BackupID      string          `json:"backup_id,omitempty" yaml:"backup_id,omitempty"`
	RolledBack    bool            `json:"rolled_back" yaml:"rolled_back"`
}

// String returns string representation of ApplyResult
func (r *ApplyResult) String() string {
	return fmt.Sprintf("ApplyResult{modified: %d, failed: %d, dry_run: %v}",
		len(r.ModifiedFiles), len(r.FailedFiles), r.DryRun)
}

// ValidationResult is the outcome of a syntax check.
type ValidationResult struct {
	Valid        bool   `json:"valid" yaml:"valid"`
	Error        string `json:"error,omitempty" yaml:"error,omitempty"`
	SuggestedFix string `json:"suggested_fix,omitempty" yaml:"suggested_fix,omitempty"`
}

// RefactoringExecutor turns a plan into filesystem changes. Implementations
// must not roll back on their own; that responsibility belongs to the
// caller via the BackupManager.
type RefactoringExecutor interface {
	// Apply executes the plan. With dryRun set it only produces a preview.
	Apply(plan *RefactoringPlan, language string, dryRun bool) (*ApplyResult, error)
}

// CodeValidator validates generated code against language syntax rules.
type CodeValidator interface {
	// ValidateCode checks a code string. Languages with no checker are
	// assumed valid.
	ValidateCode(code, language string) *ValidationResult

	// ValidateFile checks a file on disk after writing.
	ValidateFile(path, language string) *ValidationResult
}
