package main

import (
	"fmt"

	"github.com/philipparndt/gomesh/pkg/analysis"
	"github.com/spf13/cobra"
)

var (
	edgesCount     int
	edgesLongest   bool
	edgesShortest  bool
	edgesMinLength float64
	edgesMaxLength float64
)

var edgesCmd = &cobra.Command{
	Use:   "edges [file]",
	Short: "Analyze and measure edges of a model",
	Long:  "Find and measure edges, including longest, shortest, or edges within a specific length range.",
	Args:  cobra.ExactArgs(1),
	RunE:  runEdges,
}

func init() {
	rootCmd.AddCommand(edgesCmd)

	edgesCmd.Flags().IntVarP(&edgesCount, "count", "n", 10, "Number of edges to display")
	edgesCmd.Flags().BoolVarP(&edgesLongest, "longest", "l", false, "Show longest edges")
	edgesCmd.Flags().BoolVarP(&edgesShortest, "shortest", "s", false, "Show shortest edges")
	edgesCmd.Flags().Float64Var(&edgesMinLength, "min", 0.0, "Minimum edge length filter")
	edgesCmd.Flags().Float64Var(&edgesMaxLength, "max", 0.0, "Maximum edge length filter")
	edgesCmd.MarkFlagsMutuallyExclusive("longest", "shortest")
}

func runEdges(cmd *cobra.Command, args []string) error {
	loaded, err := openModel(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	defer loaded.Cleanup()

	all := analysis.AllEdges(loaded.Mesh)
	stats := analysis.EdgeStatistics(loaded.Mesh)

	var edges []analysis.EdgeInfo
	var title string
	switch {
	case edgesLongest:
		edges = analysis.FindLongestEdges(all, edgesCount)
		title = fmt.Sprintf("Top %d Longest Edges", len(edges))
	case edgesShortest:
		edges = analysis.FindShortestEdges(all, edgesCount)
		title = fmt.Sprintf("Top %d Shortest Edges", len(edges))
	case edgesMaxLength > 0:
		edges = analysis.FindEdgesByLength(all, edgesMinLength, edgesMaxLength)
		title = fmt.Sprintf("Edges between %.6f and %.6f mm (found %d)", edgesMinLength, edgesMaxLength, len(edges))
	default:
		edges = all
		title = fmt.Sprintf("All Edges (showing first %d of %d)", min(edgesCount, len(all)), len(all))
	}
	if len(edges) > edgesCount {
		edges = edges[:edgesCount]
	}

	printTitle(title)
	fmt.Printf("Total edges in model: %d (%d distinct)\n", stats.Count, len(analysis.ExtractEdges(loaded.Mesh)))
	fmt.Printf("Min edge length: %.6f mm\n", stats.Min)
	fmt.Printf("Max edge length: %.6f mm\n", stats.Max)
	fmt.Printf("Avg edge length: %.6f mm\n\n", stats.Avg)

	if len(edges) == 0 {
		fmt.Println("No edges found matching the criteria.")
		return nil
	}

	fmt.Printf("%-6s %-9s %-35s %-35s %-15s\n", "Index", "Triangle", "Start", "End", "Length")
	fmt.Println("---------------------------------------------------------------------------------------------------------------------")
	for i, edge := range edges {
		fmt.Printf("%-6d %-9d %-35s %-35s %-15.6f\n",
			i+1,
			edge.TriangleID,
			analysis.FormatVector(edge.Start),
			analysis.FormatVector(edge.End),
			edge.Length)
	}
	return nil
}
