// Package grade implements the essay grading command.
package grade

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/lioran/chatterm/internal/api"
	"github.com/lioran/chatterm/internal/cli"
	"github.com/lioran/chatterm/internal/configuration"
	"github.com/lioran/chatterm/internal/file"
)

// NewCmd instantiates the grade command.
func NewCmd(config *configuration.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "grade [file]",
		Short: "Submit an essay for grading",
		Long:  "Submit an essay to the grading backend. Reads the given file, or stdin when no file is given.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			essay, err := readEssay(args)
			if err != nil {
				return err
			}
			if strings.TrimSpace(essay) == "" {
				return errors.New("essay is empty")
			}

			client := api.NewClient(api.ResolveBaseURL(config.APIHost), "")
			evaluation, err := client.GradeEssay(cmd.Context(), essay)
			if err != nil {
				return errors.Wrap(err, "grading essay")
			}

			render(evaluation)
			return nil
		},
	}
}

func readEssay(args []string) (string, error) {
	if len(args) == 0 {
		bytes, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", errors.Wrap(err, "reading stdin")
		}
		return string(bytes), nil
	}

	path, err := file.ExpandPath(args[0])
	if err != nil {
		return "", errors.Wrap(err, "expanding path")
	}
	bytes, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrap(err, "reading file")
	}
	return string(bytes), nil
}

func render(evaluation *api.Evaluation) {
	cli.Title("Essay evaluation")
	cli.Field("Relevance", formatScore(evaluation.RelevanceScore))
	cli.Field("Grammar", formatScore(evaluation.GrammarScore))
	cli.Field("Structure", formatScore(evaluation.StructureScore))
	cli.Field("Depth", formatScore(evaluation.DepthScore))
	cli.Separator()
	cli.Field("Final score", formatScore(evaluation.FinalScore))
	cli.Field("Grade", evaluation.Grade)
}

// formatScore renders a score with two decimal places.
func formatScore(score float64) string {
	return fmt.Sprintf("%.2f", score)
}
