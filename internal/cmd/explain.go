package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/pipewright/pipewright/plan"
)

var explainCmd = &cobra.Command{
	Use:   "explain",
	Short: "Show the pipeline plan without running anything",
	Long: `Print every task in topological order with its dependencies, target
override, and run-condition. Supply runtime facts (--branch, --tag,
--event, --ci, or a YAML file via --context) to see which conditional
tasks would be skipped.`,
	RunE: runExplain,
}

var (
	explainBranch  string
	explainTag     string
	explainEvent   string
	explainCI      bool
	explainContext string
)

func init() {
	explainCmd.Flags().StringVar(&explainBranch, "branch", "", "branch name to evaluate conditions against")
	explainCmd.Flags().StringVar(&explainTag, "tag", "", "tag name to evaluate conditions against")
	explainCmd.Flags().StringVar(&explainEvent, "event", "", "trigger event to evaluate conditions against")
	explainCmd.Flags().BoolVar(&explainCI, "ci", false, "evaluate conditions as if running in CI")
	explainCmd.Flags().StringVar(&explainContext, "context", "", "YAML file with branch/tag/event/ci fields")

	rootCmd.AddCommand(explainCmd)
}

func runExplain(cmd *cobra.Command, args []string) error {
	ctx, err := explainPlanContext(cmd)
	if err != nil {
		return err
	}
	return buildPipeline().ExplainTo(cmd.OutOrStdout(), ctx)
}

// explainPlanContext assembles the evaluation context. A --context file is
// the base; explicit flags override its fields. With neither, evaluation
// is disabled entirely.
func explainPlanContext(cmd *cobra.Command) (*plan.Context, error) {
	var ctx plan.Context
	loaded := false

	if explainContext != "" {
		data, err := os.ReadFile(explainContext)
		if err != nil {
			return nil, fmt.Errorf("reading context file: %w", err)
		}
		if err := yaml.Unmarshal(data, &ctx); err != nil {
			return nil, fmt.Errorf("parsing context file %s: %w", explainContext, err)
		}
		loaded = true
	}

	if cmd.Flags().Changed("branch") {
		ctx.Branch = explainBranch
		loaded = true
	}
	if cmd.Flags().Changed("tag") {
		ctx.Tag = explainTag
		loaded = true
	}
	if cmd.Flags().Changed("event") {
		ctx.Event = explainEvent
		loaded = true
	}
	if cmd.Flags().Changed("ci") {
		ctx.CI = explainCI
		loaded = true
	}

	if !loaded {
		return nil, nil
	}
	return &ctx, nil
}
