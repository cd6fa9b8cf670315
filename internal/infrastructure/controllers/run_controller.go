package controllers

import (
	"context"
	"errors"
	"fmt"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/updatebot/internal/domain/commands"
	"github.com/rios0rios0/updatebot/internal/domain/entities"
)

// RunController handles the "run" subcommand.
type RunController struct {
	command commands.Run
}

// NewRunController creates a new RunController.
func NewRunController(command commands.Run) *RunController {
	return &RunController{command: command}
}

// GetBind returns the Cobra command metadata for the run controller.
func (it *RunController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "run",
		Short: "Decide and emit pull-request actions for one update job",
		Long: `Run one dependency update job against a local checkout.

The job file describes the package manager, the directory to scan, the
open pull requests and the security advisories. Dependencies are
discovered once, the job's mode decides which pull requests to create,
refresh or close, and the resulting messages are delivered to the
configured sink (JSON lines on stdout by default).`,
	}
}

// Execute runs the job named by --job.
func (it *RunController) Execute(cmd *cobra.Command, _ []string) {
	ctx := context.Background()

	settings, job, opts, err := loadInputs(cmd)
	if err != nil {
		logger.Errorf("%v", err)
		return
	}

	logger.Infof("Starting update job %q (%s)...", job.ID, job.PackageManager)
	if runErr := it.command.Execute(ctx, settings, job, opts); runErr != nil {
		logger.Errorf("Run failed: %v", runErr)
	}
}

// AddFlags adds the job flags to the given Cobra command.
func (it *RunController) AddFlags(cmd *cobra.Command) {
	addJobFlags(cmd)
}

// addJobFlags adds the flags shared by every job-driven subcommand.
func addJobFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("job", "j", "", "Path to the job definition (YAML or JSON)")
	cmd.Flags().String("repo-root", ".", "Root of the checked out repository")
}

// loadInputs reads the settings, the job and the run options from the flags.
func loadInputs(cmd *cobra.Command) (*entities.Settings, *entities.Job, entities.RunOptions, error) {
	configPath, _ := cmd.Flags().GetString("config")
	jobPath, _ := cmd.Flags().GetString("job")
	repoRoot, _ := cmd.Flags().GetString("repo-root")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	verbose, _ := cmd.Flags().GetBool("verbose")

	if verbose {
		logger.SetLevel(logger.DebugLevel)
	}
	if jobPath == "" {
		return nil, nil, entities.RunOptions{}, errors.New("a job file is required, pass one with --job")
	}

	settings, err := loadSettings(configPath)
	if err != nil {
		return nil, nil, entities.RunOptions{}, err
	}

	job, err := entities.NewJob(jobPath)
	if err != nil {
		return nil, nil, entities.RunOptions{}, fmt.Errorf("failed to load job: %w", err)
	}

	return settings, job, entities.RunOptions{RepoRoot: repoRoot, DryRun: dryRun}, nil
}

// loadSettings reads the config file, falling back to built-in defaults
// when none is given or found.
func loadSettings(configPath string) (*entities.Settings, error) {
	cfgPath := configPath
	if cfgPath == "" {
		var err error
		cfgPath, err = entities.FindConfigFile()
		if err != nil {
			logger.Debugf("No config file found, using defaults: %v", err)
			return entities.DefaultSettings(), nil
		}
	}

	logger.Infof("Using config file: %s", cfgPath)
	settings, err := entities.NewSettings(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return settings, nil
}
