package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/refakt/domain"
	"github.com/ludo-technologies/refakt/internal/analyzer"
)

// DiffCommand aligns two files or fragments and explains how they differ.
type DiffCommand struct {
	leftLines  string
	rightLines string

	ignoreWhitespace bool
	ignoreComments   bool
	collapse         bool
	showVariations   bool
	json             bool
}

// NewDiffCommand creates a new diff command
func NewDiffCommand() *DiffCommand {
	return &DiffCommand{}
}

// CreateCobraCommand creates the Cobra command for alignment diffs
func (c *DiffCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff <left-file> <right-file>",
		Short: "Align two code fragments and classify their differences",
		Long: `Compute a line-level alignment between two files or fragments and
report aligned, divergent, inserted, and deleted regions. Divergent line
pairs can additionally be classified into variation categories.

Examples:
  refakt diff a.py b.py
  refakt diff --left-lines 10-40 --right-lines 55-85 handlers.py handlers.py
  refakt diff --variations --collapse a.py b.py`,
		Args: cobra.ExactArgs(2),
		RunE: c.runDiff,
	}

	cmd.Flags().StringVar(&c.leftLines, "left-lines", "",
		"Line range of the left fragment (start-end, 1-based)")
	cmd.Flags().StringVar(&c.rightLines, "right-lines", "",
		"Line range of the right fragment (start-end, 1-based)")
	cmd.Flags().BoolVar(&c.ignoreWhitespace, "ignore-whitespace", false,
		"Treat lines differing only in whitespace as aligned")
	cmd.Flags().BoolVar(&c.ignoreComments, "ignore-comments", false,
		"Strip trailing comments before comparing")
	cmd.Flags().BoolVar(&c.collapse, "collapse", false,
		"Collapse long aligned runs into a placeholder")
	cmd.Flags().BoolVar(&c.showVariations, "variations", false,
		"Classify divergent line pairs into variation categories")
	cmd.Flags().BoolVar(&c.json, "json", false, "Output as JSON")

	return cmd
}

func (c *DiffCommand) runDiff(cmd *cobra.Command, args []string) error {
	left, err := loadFragment(args[0], c.leftLines)
	if err != nil {
		return err
	}
	right, err := loadFragment(args[1], c.rightLines)
	if err != nil {
		return err
	}

	engine := analyzer.NewAlignmentEngine()
	result := engine.Align(left, right, domain.AlignmentOptions{
		IgnoreWhitespace: c.ignoreWhitespace,
		IgnoreComments:   c.ignoreComments,
	})

	variations, summary := c.classifyVariations(result)

	if c.json {
		payload := struct {
			Alignment  *domain.AlignmentResult  `json:"alignment"`
			Variations []*domain.Variation      `json:"variations,omitempty"`
			Summary    *domain.VariationSummary `json:"variation_summary,omitempty"`
		}{result, variations, summary}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	}

	opts := analyzer.DefaultReportOptions()
	opts.CollapseContext = c.collapse
	fmt.Print(analyzer.FormatAlignment(result, opts))

	if summary != nil {
		fmt.Println()
		fmt.Printf("Variations: %d total, %d parameterizable, refactoring complexity %s\n",
			summary.Total, summary.ParameterizableCount, summary.RefactoringComplexity)
		for _, v := range variations {
			fmt.Printf("  [%s/%s] %q -> %q", v.Category, v.Severity, v.OldValue, v.NewValue)
			if v.Parameterizable {
				fmt.Printf(" (param: %s)", v.SuggestedParamName)
			}
			fmt.Println()
		}
	}

	return nil
}

// classifyVariations pairs up divergent lines and classifies each pair.
func (c *DiffCommand) classifyVariations(result *domain.AlignmentResult) ([]*domain.Variation, *domain.VariationSummary) {
	if !c.showVariations {
		return nil, nil
	}

	classifier := analyzer.NewVariationClassifier()
	var inputs []analyzer.VariationInput
	for _, seg := range result.Segments {
		if seg.Type != domain.SegmentDivergent {
			continue
		}
		n := len(seg.LeftText)
		if len(seg.RightText) < n {
			n = len(seg.RightText)
		}
		for i := 0; i < n; i++ {
			inputs = append(inputs, analyzer.VariationInput{
				OldValue: strings.TrimSpace(seg.LeftText[i]),
				NewValue: strings.TrimSpace(seg.RightText[i]),
			})
		}
	}

	variations, summary := classifier.ClassifyBatch(inputs)
	return variations, summary
}

// loadFragment reads a file and optionally slices it to a 1-based line range.
func loadFragment(path, lineRange string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", domain.NewFileNotFoundError(path, err)
	}
	if lineRange == "" {
		return string(data), nil
	}

	start, end, err := parseLineRange(lineRange)
	if err != nil {
		return "", err
	}

	lines := strings.Split(string(data), "\n")
	if start > len(lines) {
		return "", domain.NewValidationError(
			fmt.Sprintf("range %s is beyond the end of %s", lineRange, path))
	}
	if end > len(lines) {
		end = len(lines)
	}
	return strings.Join(lines[start-1:end], "\n"), nil
}

func parseLineRange(s string) (int, int, error) {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return 0, 0, domain.NewValidationError("line range must look like start-end")
	}
	start, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || start < 1 {
		return 0, 0, domain.NewValidationError("line range start must be a positive integer")
	}
	end, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || end < start {
		return 0, 0, domain.NewValidationError("line range end must be >= start")
	}
	return start, end, nil
}
