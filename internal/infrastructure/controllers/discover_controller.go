package controllers

import (
	"context"
	"encoding/json"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/updatebot/internal/domain/commands"
	"github.com/rios0rios0/updatebot/internal/domain/entities"
)

// DiscoverController handles the "discover" subcommand.
type DiscoverController struct {
	command commands.Discover
}

// NewDiscoverController creates a new DiscoverController.
func NewDiscoverController(command commands.Discover) *DiscoverController {
	return &DiscoverController{command: command}
}

// GetBind returns the Cobra command metadata for the discover controller.
func (it *DiscoverController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "discover",
		Short: "List the dependencies of a job's workspace",
		Long: `Run discovery for one update job and print the dependency list
that would be reported, without analyzing or updating anything.`,
	}
}

// Execute prints the dependency list of the job named by --job.
func (it *DiscoverController) Execute(cmd *cobra.Command, _ []string) {
	ctx := context.Background()

	settings, job, opts, err := loadInputs(cmd)
	if err != nil {
		logger.Errorf("%v", err)
		return
	}

	report, err := it.command.Execute(ctx, settings, job, opts)
	if err != nil {
		logger.Errorf("Discovery failed: %v", err)
		return
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	if encodeErr := encoder.Encode(report); encodeErr != nil {
		logger.Errorf("Failed to print dependency list: %v", encodeErr)
	}
}

// AddFlags adds the job flags to the given Cobra command.
func (it *DiscoverController) AddFlags(cmd *cobra.Command) {
	addJobFlags(cmd)
}
