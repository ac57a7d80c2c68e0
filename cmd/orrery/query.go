package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/orreryworks/orrery/pkg/engine"
	"github.com/orreryworks/orrery/pkg/export"
)

var (
	relatedLimit    int
	queryTrain      bool
	exportFormat    string
	exportThreshold float64
	exportOut       string
)

var relatedCmd = &cobra.Command{
	Use:   "related <project-id>",
	Short: "List projects related to one project",
	Long: `List the ranked neighbors of a project from the connection graph.

Examples:
  orrery related lorenz-attractor --catalog catalog.json
  orrery related mandelbrot-zoom --limit 5 --train`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, _, _, _, err := setup(cmd.Context(), queryTrain)
		if err != nil {
			return err
		}
		related, err := eng.RelatedProjects(args[0], relatedLimit)
		if err != nil {
			return err
		}
		return printJSON(related)
	},
}

var similarityCmd = &cobra.Command{
	Use:   "similarity <project-a> <project-b>",
	Short: "Show the similarity between two projects",
	Long: `Show the similarity score and per-domain explanation for one pair.

Examples:
  orrery similarity lorenz-attractor rossler-attractor --catalog catalog.json`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, _, _, _, err := setup(cmd.Context(), queryTrain)
		if err != nil {
			return err
		}
		result, err := eng.Similarity(args[0], args[1])
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

var collectionsCmd = &cobra.Command{
	Use:   "collections",
	Short: "Generate collections from detected clusters",
	Long: `Detect clusters of tightly related projects and print them as
auto-generated collections.

Examples:
  orrery collections --catalog catalog.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, _, _, _, err := setup(cmd.Context(), queryTrain)
		if err != nil {
			return err
		}
		return printJSON(eng.GenerateCollections())
	},
}

var feedbackCmd = &cobra.Command{
	Use:   "feedback <project-a> <project-b> <signal>",
	Short: "Apply a feedback signal to a project pair",
	Long: `Apply one feedback signal (relevant, very_relevant, not_relevant)
to a pair and print the updated similarity.

The adjustment is in-memory only; without persistence it demonstrates
the update and the repaired ranking within this invocation.

Examples:
  orrery feedback lorenz-attractor rossler-attractor very_relevant --catalog catalog.json`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, _, _, _, err := setup(cmd.Context(), false)
		if err != nil {
			return err
		}
		updated, err := eng.ApplyFeedback(args[0], args[1], engine.Signal(args[2]))
		if err != nil {
			return err
		}
		fmt.Printf("updated similarity: %.4f\n", updated)
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the connection graph",
	Long: `Serialize the connection graph in one of: json, graphml, dot, csv.

Examples:
  orrery export --catalog catalog.json --format dot
  orrery export --catalog catalog.json --format graphml --threshold 0.5 -o graph.graphml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, _, _, _, err := setup(cmd.Context(), queryTrain)
		if err != nil {
			return err
		}
		data, err := eng.ExportGraph(export.Format(exportFormat), exportThreshold)
		if err != nil {
			return err
		}
		if exportOut != "" {
			return os.WriteFile(exportOut, data, 0o644)
		}
		_, err = os.Stdout.Write(data)
		return err
	},
}

var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Print network analytics",
	Long: `Print network-wide analytics: totals, average similarity, the most
connected project, category distribution, complexity stats, and
embedding status.

Examples:
  orrery analytics --catalog catalog.json --train`,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, _, _, _, err := setup(cmd.Context(), queryTrain)
		if err != nil {
			return err
		}
		return printJSON(eng.NetworkAnalytics())
	},
}

func init() {
	relatedCmd.Flags().IntVar(&relatedLimit, "limit", 10, "maximum neighbors to return")

	for _, cmd := range []*cobra.Command{relatedCmd, similarityCmd, collectionsCmd, exportCmd, analyticsCmd} {
		cmd.Flags().BoolVar(&queryTrain, "train", false, "train embeddings before querying")
	}

	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "export format (json, graphml, dot, csv)")
	exportCmd.Flags().Float64Var(&exportThreshold, "threshold", 0, "minimum edge weight (0 = graph default)")
	exportCmd.Flags().StringVarP(&exportOut, "output", "o", "", "output file (default stdout)")
}

// printJSON pretty-prints a value to stdout.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
