package app

import (
	"fmt"

	"github.com/ludo-technologies/refakt/domain"
)

// ApplyUseCase orchestrates the refactoring apply workflow: pre-validate,
// back up, execute, post-validate, and roll back when anything fails after
// files were touched.
type ApplyUseCase struct {
	executor  domain.RefactoringExecutor
	validator domain.CodeValidator
	backups   domain.BackupManager
}

// ApplyOptions configures one apply run.
type ApplyOptions struct {
	Language      string
	DryRun        bool
	SkipBackup    bool
	SkipPostCheck bool
}

// NewApplyUseCase creates a new apply use case
func NewApplyUseCase(
	executor domain.RefactoringExecutor,
	validator domain.CodeValidator,
	backups domain.BackupManager,
) *ApplyUseCase {
	return &ApplyUseCase{
		executor:  executor,
		validator: validator,
		backups:   backups,
	}
}

// Execute applies the refactoring plan. Dry runs skip validation, backup and
// rollback entirely and only produce the preview.
func (uc *ApplyUseCase) Execute(plan *domain.RefactoringPlan, opts ApplyOptions) (*domain.ApplyResult, error) {
	if plan == nil {
		return nil, domain.NewValidationError("refactoring plan is required")
	}
	if err := plan.Validate(); err != nil {
		return nil, err
	}

	if opts.DryRun {
		return uc.executor.Apply(plan, opts.Language, true)
	}

	// Generated code must parse before any file is touched.
	if plan.GeneratedCode != "" && uc.validator != nil {
		if check := uc.validator.ValidateCode(plan.GeneratedCode, opts.Language); !check.Valid {
			return nil, domain.NewSyntaxError(
				fmt.Sprintf("generated code failed validation: %s (%s)", check.Error, check.SuggestedFix))
		}
	}

	backupID := ""
	if !opts.SkipBackup && uc.backups != nil {
		var err error
		backupID, err = uc.backups.CreateBackup(affectedUpdateFiles(plan), &domain.DeduplicationMetadata{
			DuplicateGroupID: plan.GroupID,
			Strategy:         string(plan.Strategy),
			AffectedFiles:    plan.AffectedFiles,
		})
		if err != nil {
			return nil, domain.NewBackupError("failed to create pre-apply backup", err)
		}
	}

	result, err := uc.executor.Apply(plan, opts.Language, false)
	if result == nil {
		result = &domain.ApplyResult{}
	}
	result.BackupID = backupID

	if err != nil {
		uc.rollback(backupID, result)
		return result, err
	}

	if !opts.SkipPostCheck && uc.validator != nil {
		if badFile, check := uc.postValidate(result.ModifiedFiles, opts.Language); check != nil {
			uc.rollback(backupID, result)
			result.FailedFiles = append(result.FailedFiles, badFile)
			return result, domain.NewSyntaxError(
				fmt.Sprintf("%s failed validation after apply: %s (%s)", badFile, check.Error, check.SuggestedFix))
		}
	}

	return result, nil
}

// postValidate checks every modified file and returns the first failure.
func (uc *ApplyUseCase) postValidate(files []string, language string) (string, *domain.ValidationResult) {
	for _, file := range files {
		if check := uc.validator.ValidateFile(file, language); !check.Valid {
			return file, check
		}
	}
	return "", nil
}

func (uc *ApplyUseCase) rollback(backupID string, result *domain.ApplyResult) {
	if backupID == "" || uc.backups == nil {
		return
	}
	if _, err := uc.backups.Rollback(backupID); err == nil {
		result.RolledBack = true
	}
}

// affectedUpdateFiles lists the existing files the plan will modify.
// Creations need no backup; they did not exist before the apply.
func affectedUpdateFiles(plan *domain.RefactoringPlan) []string {
	files := make([]string, 0, len(plan.Updates))
	for _, update := range plan.Updates {
		if update.Path != "" {
			files = append(files, update.Path)
		}
	}
	return files
}
