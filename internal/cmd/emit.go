package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var emitCmd = &cobra.Command{
	Use:   "emit",
	Short: "Validate the pipeline and write it as JSON",
	Long: `Validate the pipeline definition and write the versioned JSON document
to stdout (or a file with -o). On validation failure nothing is written
and the exit code is non-zero.`,
	RunE: runEmit,
}

var emitOutput string

func init() {
	emitCmd.Flags().StringVarP(&emitOutput, "output", "o", "", "write the document to a file instead of stdout")

	rootCmd.AddCommand(emitCmd)
}

func runEmit(cmd *cobra.Command, args []string) error {
	var w io.Writer = cmd.OutOrStdout()

	if emitOutput != "" {
		f, err := os.Create(emitOutput)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	return buildPipeline().EmitTo(w)
}
