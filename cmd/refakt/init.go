package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/refakt/domain"
	"github.com/ludo-technologies/refakt/service"
)

// InitCommand represents the init command
type InitCommand struct {
	force      bool
	configPath string
}

// NewInitCommand creates a new init command
func NewInitCommand() *InitCommand {
	return &InitCommand{
		configPath: ".refakt.toml",
	}
}

// CreateCobraCommand creates the cobra command for configuration initialization
func (i *InitCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize refakt configuration file",
		Long: `Initialize a refakt configuration file in the current directory.

Creates a .refakt.toml file with the default detection, ranking, backup,
and output settings so they can be tuned per project.

Examples:
  # Create .refakt.toml in current directory
  refakt init

  # Overwrite an existing configuration file
  refakt init --force`,
		RunE: i.runInit,
	}

	cmd.Flags().BoolVarP(&i.force, "force", "f", false, "Overwrite existing configuration file")
	cmd.Flags().StringVarP(&i.configPath, "config", "c", ".refakt.toml", "Configuration file path")

	return cmd
}

// runInit executes the init command
func (i *InitCommand) runInit(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(i.configPath); err == nil && !i.force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", i.configPath)
	}

	loader := service.NewConfigurationLoader()
	if err := loader.SaveConfig(domain.DefaultAnalyzeRequest(), i.configPath); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", i.configPath)
	return nil
}

// NewInitCmd creates and returns the init cobra command
func NewInitCmd() *cobra.Command {
	return NewInitCommand().CreateCobraCommand()
}
