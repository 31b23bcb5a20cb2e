package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/refakt/app"
	"github.com/ludo-technologies/refakt/domain"
	"github.com/ludo-technologies/refakt/internal/backup"
	"github.com/ludo-technologies/refakt/internal/refactor"
)

// ApplyCommand executes a refactoring plan against the working tree.
type ApplyCommand struct {
	language    string
	projectPath string
	dryRun      bool
	noBackup    bool
	noValidate  bool
}

// NewApplyCommand creates a new apply command
func NewApplyCommand() *ApplyCommand {
	return &ApplyCommand{
		language:    "python",
		projectPath: ".",
	}
}

// CreateCobraCommand creates the Cobra command for applying plans
func (c *ApplyCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply <plan.json>",
		Short: "Execute a refactoring plan with backup and rollback",
		Long: `Execute a refactoring plan: validate the generated code, snapshot the
files it will touch, write the changes, re-validate the results, and roll
everything back if anything fails along the way.

Examples:
  # Preview what a plan would change
  refakt apply --dry-run plan.json

  # Apply for real
  refakt apply plan.json`,
		Args: cobra.ExactArgs(1),
		RunE: c.runApply,
	}

	cmd.Flags().StringVarP(&c.language, "language", "l", c.language,
		"Source language of the updated files")
	cmd.Flags().StringVarP(&c.projectPath, "project", "p", c.projectPath,
		"Project root (backups are stored beneath it)")
	cmd.Flags().BoolVar(&c.dryRun, "dry-run", false,
		"Preview the plan without touching any file")
	cmd.Flags().BoolVar(&c.noBackup, "no-backup", false,
		"Skip the pre-apply backup (not recommended)")
	cmd.Flags().BoolVar(&c.noValidate, "no-validate", false,
		"Skip post-apply syntax validation")

	return cmd
}

func (c *ApplyCommand) runApply(cmd *cobra.Command, args []string) error {
	plan, err := loadPlan(args[0])
	if err != nil {
		return err
	}

	useCase := app.NewApplyUseCase(
		refactor.NewExecutor(),
		refactor.NewValidator(),
		backup.NewManager(c.projectPath),
	)

	result, err := useCase.Execute(plan, app.ApplyOptions{
		Language:      c.language,
		DryRun:        c.dryRun,
		SkipBackup:    c.noBackup,
		SkipPostCheck: c.noValidate,
	})
	if err != nil {
		if result != nil && result.RolledBack {
			fmt.Fprintf(os.Stderr, "apply failed, restored from backup %s\n", result.BackupID)
		}
		return err
	}

	if c.dryRun {
		printPreview(result)
		return nil
	}

	fmt.Printf("Applied %d file change(s)\n", len(result.ModifiedFiles))
	for _, file := range result.ModifiedFiles {
		fmt.Printf("  %s\n", file)
	}
	if result.BackupID != "" {
		fmt.Printf("Backup: %s (use 'refakt backup rollback %s' to undo)\n",
			result.BackupID, result.BackupID)
	}
	return nil
}

func printPreview(result *domain.ApplyResult) {
	fmt.Printf("Dry run: %d pending operation(s)\n", len(result.Preview))
	for _, entry := range result.Preview {
		switch {
		case entry.SkippedReason != "":
			fmt.Printf("  skip   %s (%s)\n", entry.Path, entry.SkippedReason)
		case entry.Operation == "update":
			fmt.Printf("  update %s", entry.Path)
			if entry.HasImport {
				fmt.Print(" +import")
			}
			fmt.Println()
			if entry.DiffPreview != "" {
				fmt.Print(entry.DiffPreview)
			}
		default:
			fmt.Printf("  %-6s %s (%d lines)\n", entry.Operation, entry.Path, entry.ContentLines)
		}
	}
}

func loadPlan(path string) (*domain.RefactoringPlan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.NewFileNotFoundError(path, err)
	}
	var plan domain.RefactoringPlan
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, domain.NewInvalidInputError(
			fmt.Sprintf("failed to parse refactoring plan %s", path), err)
	}
	return &plan, nil
}
