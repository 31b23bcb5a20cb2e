package refactor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ludo-technologies/refakt/domain"
)

// Executor turns a refactoring plan into file creations and updates. The
// executor never rolls back on its own; failed applies are recovered by the
// caller through the backup manager.
type Executor struct{}

// NewExecutor creates a new refactoring executor
func NewExecutor() *Executor {
	return &Executor{}
}

// Apply executes the plan. In dry-run mode it only assembles a preview and
// never touches disk. In apply mode, file operations run sequentially and
// the first unrecoverable I/O failure propagates; partial work is left for
// the caller to roll back.
func (e *Executor) Apply(plan *domain.RefactoringPlan, language string, dryRun bool) (*domain.ApplyResult, error) {
	if plan == nil {
		return nil, domain.NewValidationError("refactoring plan is required")
	}
	if err := plan.Validate(); err != nil {
		return nil, err
	}

	if dryRun {
		return e.preview(plan), nil
	}
	return e.execute(plan, language)
}

// preview lists every pending operation without touching disk.
func (e *Executor) preview(plan *domain.RefactoringPlan) *domain.ApplyResult {
	result := &domain.ApplyResult{DryRun: true}

	for _, creation := range plan.Creations {
		entry := &domain.PreviewEntry{Path: creation.Path}
		switch {
		case creation.Path == "":
			entry.SkippedReason = "empty path"
		case creation.Content == "":
			entry.SkippedReason = "empty content"
		default:
			entry.Operation = "create"
			if creation.Append {
				entry.Operation = "append"
			}
			entry.ContentLines = countContentLines(creation.Content)
		}
		result.Preview = append(result.Preview, entry)
	}

	for _, update := range plan.Updates {
		entry := &domain.PreviewEntry{Path: update.Path, Operation: "update"}
		switch {
		case update.Path == "":
			entry.Operation = ""
			entry.SkippedReason = "empty path"
		default:
			entry.HasReplace = update.HasReplacement()
			entry.HasImport = update.ImportStatement != ""
			if existing, err := os.ReadFile(update.Path); err == nil && entry.HasReplace {
				updated := strings.Replace(string(existing), update.OldContent, update.NewContent, 1)
				entry.DiffPreview = RenderFileDiff(update.Path, string(existing), updated)
			}
		}
		result.Preview = append(result.Preview, entry)
	}

	return result
}

// execute applies creations then updates.
func (e *Executor) execute(plan *domain.RefactoringPlan, language string) (*domain.ApplyResult, error) {
	result := &domain.ApplyResult{}

	for _, creation := range plan.Creations {
		if creation.Path == "" || creation.Content == "" {
			continue
		}
		if err := writeCreation(creation); err != nil {
			result.FailedFiles = append(result.FailedFiles, creation.Path)
			return result, domain.NewRefactoringError(
				fmt.Sprintf("failed to create %s", creation.Path), err)
		}
		result.ModifiedFiles = append(result.ModifiedFiles, creation.Path)
	}

	for _, update := range plan.Updates {
		if update.Path == "" {
			continue
		}
		modified, err := e.applyUpdate(update, language)
		if err != nil {
			result.FailedFiles = append(result.FailedFiles, update.Path)
			return result, domain.NewRefactoringError(
				fmt.Sprintf("failed to update %s", update.Path), err)
		}
		if modified {
			result.ModifiedFiles = append(result.ModifiedFiles, update.Path)
		}
	}

	return result, nil
}

// applyUpdate substitutes content and/or inserts an import into an existing
// file. Files that do not exist are skipped, not errors.
func (e *Executor) applyUpdate(update *domain.FileUpdate, language string) (bool, error) {
	data, err := os.ReadFile(update.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}

	content := string(data)
	changed := false

	if update.HasReplacement() && strings.Contains(content, update.OldContent) {
		content = strings.Replace(content, update.OldContent, update.NewContent, 1)
		changed = true
	}
	if update.ImportStatement != "" {
		updated := InsertImport(content, update.ImportStatement, language)
		if updated != content {
			content = updated
			changed = true
		}
	}

	if !changed {
		return false, nil
	}
	if err := os.WriteFile(update.Path, []byte(content), 0o644); err != nil {
		return false, err
	}
	return true, nil
}

func writeCreation(creation *domain.FileCreation) error {
	if dir := filepath.Dir(creation.Path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	if creation.Append {
		f, err := os.OpenFile(creation.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		_, err = f.WriteString(creation.Content)
		return err
	}

	return os.WriteFile(creation.Path, []byte(creation.Content), 0o644)
}

func countContentLines(content string) int {
	if content == "" {
		return 0
	}
	lines := strings.Split(content, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return len(lines)
}
