package app

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/refakt/domain"
)

type stubExecutor struct {
	result     *domain.ApplyResult
	err        error
	lastDryRun bool
	calls      int
}

func (s *stubExecutor) Apply(plan *domain.RefactoringPlan, language string, dryRun bool) (*domain.ApplyResult, error) {
	s.calls++
	s.lastDryRun = dryRun
	return s.result, s.err
}

type stubValidator struct {
	codeResult *domain.ValidationResult
	fileResult map[string]*domain.ValidationResult
}

func (s *stubValidator) ValidateCode(code, language string) *domain.ValidationResult {
	if s.codeResult != nil {
		return s.codeResult
	}
	return &domain.ValidationResult{Valid: true}
}

func (s *stubValidator) ValidateFile(path, language string) *domain.ValidationResult {
	if r, ok := s.fileResult[path]; ok {
		return r
	}
	return &domain.ValidationResult{Valid: true}
}

type stubBackups struct {
	backupID    string
	createErr   error
	rollbackErr error
	created     [][]string
	rolledBack  []string
}

func (s *stubBackups) CreateBackup(files []string, meta *domain.DeduplicationMetadata) (string, error) {
	s.created = append(s.created, files)
	return s.backupID, s.createErr
}

func (s *stubBackups) Rollback(backupID string) ([]string, error) {
	s.rolledBack = append(s.rolledBack, backupID)
	return []string{"restored.py"}, s.rollbackErr
}

func (s *stubBackups) VerifyIntegrity(backupID string) *domain.IntegrityReport {
	return &domain.IntegrityReport{Valid: true}
}

func (s *stubBackups) CleanupOldBackups(retentionDays int) ([]string, error) {
	return nil, nil
}

func (s *stubBackups) ListBackups() ([]*domain.BackupInfo, error) {
	return nil, nil
}

func samplePlan() *domain.RefactoringPlan {
	return &domain.RefactoringPlan{
		Strategy:      domain.StrategyExtractFunction,
		GeneratedCode: "def shared():\n    return 1",
		Creations: []*domain.FileCreation{
			{Path: "lib/shared.py", Content: "def shared():\n    return 1\n"},
		},
		Updates: []*domain.FileUpdate{
			{Path: "a.py", OldContent: "old", NewContent: "new"},
			{Path: "b.py", OldContent: "old", NewContent: "new"},
		},
		GroupID: "group-1",
	}
}

func TestApplyUseCase_NilPlan(t *testing.T) {
	uc := NewApplyUseCase(&stubExecutor{}, &stubValidator{}, &stubBackups{})

	_, err := uc.Execute(nil, ApplyOptions{Language: "python"})
	require.Error(t, err)
}

func TestApplyUseCase_DryRunSkipsValidationAndBackup(t *testing.T) {
	executor := &stubExecutor{result: &domain.ApplyResult{DryRun: true}}
	backups := &stubBackups{backupID: "dedup-1"}
	validator := &stubValidator{codeResult: &domain.ValidationResult{Valid: false, Error: "broken"}}
	uc := NewApplyUseCase(executor, validator, backups)

	result, err := uc.Execute(samplePlan(), ApplyOptions{Language: "python", DryRun: true})
	require.NoError(t, err)

	assert.True(t, result.DryRun)
	assert.True(t, executor.lastDryRun)
	// The invalid generated code never blocked the preview, and no backup
	// was taken.
	assert.Empty(t, backups.created)
}

func TestApplyUseCase_RejectsInvalidGeneratedCode(t *testing.T) {
	executor := &stubExecutor{}
	validator := &stubValidator{
		codeResult: &domain.ValidationResult{Valid: false, Error: "missing colon", SuggestedFix: "add ':'"},
	}
	uc := NewApplyUseCase(executor, validator, &stubBackups{})

	_, err := uc.Execute(samplePlan(), ApplyOptions{Language: "python"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing colon")
	assert.Equal(t, 0, executor.calls)
}

func TestApplyUseCase_SuccessfulApply(t *testing.T) {
	executor := &stubExecutor{result: &domain.ApplyResult{ModifiedFiles: []string{"a.py", "b.py"}}}
	backups := &stubBackups{backupID: "dedup-20250314-092653"}
	uc := NewApplyUseCase(executor, &stubValidator{}, backups)

	result, err := uc.Execute(samplePlan(), ApplyOptions{Language: "python"})
	require.NoError(t, err)

	assert.Equal(t, "dedup-20250314-092653", result.BackupID)
	assert.False(t, result.RolledBack)
	// Only update targets are backed up; the created file did not exist.
	require.Len(t, backups.created, 1)
	assert.Equal(t, []string{"a.py", "b.py"}, backups.created[0])
}

func TestApplyUseCase_BackupFailureAborts(t *testing.T) {
	executor := &stubExecutor{}
	backups := &stubBackups{createErr: errors.New("disk full")}
	uc := NewApplyUseCase(executor, &stubValidator{}, backups)

	_, err := uc.Execute(samplePlan(), ApplyOptions{Language: "python"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create pre-apply backup")
	assert.Equal(t, 0, executor.calls)
}

func TestApplyUseCase_ExecutorFailureRollsBack(t *testing.T) {
	executor := &stubExecutor{
		result: &domain.ApplyResult{FailedFiles: []string{"a.py"}},
		err:    errors.New("write failed"),
	}
	backups := &stubBackups{backupID: "dedup-1"}
	uc := NewApplyUseCase(executor, &stubValidator{}, backups)

	result, err := uc.Execute(samplePlan(), ApplyOptions{Language: "python"})
	require.Error(t, err)

	assert.True(t, result.RolledBack)
	assert.Equal(t, []string{"dedup-1"}, backups.rolledBack)
}

func TestApplyUseCase_PostValidationFailureRollsBack(t *testing.T) {
	executor := &stubExecutor{result: &domain.ApplyResult{ModifiedFiles: []string{"a.py", "b.py"}}}
	backups := &stubBackups{backupID: "dedup-1"}
	validator := &stubValidator{
		fileResult: map[string]*domain.ValidationResult{
			"b.py": {Valid: false, Error: "unbalanced bracket", SuggestedFix: "check punctuation"},
		},
	}
	uc := NewApplyUseCase(executor, validator, backups)

	result, err := uc.Execute(samplePlan(), ApplyOptions{Language: "python"})
	require.Error(t, err)

	assert.True(t, result.RolledBack)
	assert.Contains(t, result.FailedFiles, "b.py")
	assert.Contains(t, err.Error(), "failed validation after apply")
}

func TestApplyUseCase_SkipBackup(t *testing.T) {
	executor := &stubExecutor{result: &domain.ApplyResult{ModifiedFiles: []string{"a.py"}}}
	backups := &stubBackups{backupID: "dedup-1"}
	uc := NewApplyUseCase(executor, &stubValidator{}, backups)

	result, err := uc.Execute(samplePlan(), ApplyOptions{Language: "python", SkipBackup: true})
	require.NoError(t, err)

	assert.Empty(t, result.BackupID)
	assert.Empty(t, backups.created)
}

func TestApplyUseCase_SkipPostCheck(t *testing.T) {
	executor := &stubExecutor{result: &domain.ApplyResult{ModifiedFiles: []string{"a.py"}}}
	validator := &stubValidator{
		fileResult: map[string]*domain.ValidationResult{
			"a.py": {Valid: false, Error: "would fail"},
		},
	}
	uc := NewApplyUseCase(executor, validator, &stubBackups{backupID: "dedup-1"})

	_, err := uc.Execute(samplePlan(), ApplyOptions{Language: "python", SkipPostCheck: true})
	require.NoError(t, err)
}
