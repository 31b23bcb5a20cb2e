package service

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/ludo-technologies/refakt/domain"
)

// OutputFormatterImpl implements the OutputFormatter interface
type OutputFormatterImpl struct{}

// NewOutputFormatter creates a new output formatter service
func NewOutputFormatter() *OutputFormatterImpl {
	return &OutputFormatterImpl{}
}

// Format renders the analysis response in the requested format.
func (f *OutputFormatterImpl) Format(response *domain.AnalyzeResponse, format domain.OutputFormat, writer io.Writer) error {
	switch format {
	case domain.OutputFormatText:
		return f.formatText(response, writer)
	case domain.OutputFormatJSON:
		return f.formatJSON(response, writer)
	case domain.OutputFormatYAML:
		return f.formatYAML(response, writer)
	case domain.OutputFormatCSV:
		return f.formatCSV(response, writer)
	default:
		return domain.NewOutputError(fmt.Sprintf("unsupported output format: %s", format), nil)
	}
}

// formatText renders a human-readable report
func (f *OutputFormatterImpl) formatText(response *domain.AnalyzeResponse, writer io.Writer) error {
	var b strings.Builder

	b.WriteString(color.CyanString("Duplicate Code Analysis"))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("=", 60))
	b.WriteString("\n\n")

	if response.Message != "" {
		b.WriteString(response.Message)
		b.WriteString("\n\n")
	}

	fmt.Fprintf(&b, "Constructs analyzed:    %d\n", response.Summary.TotalConstructs)
	fmt.Fprintf(&b, "Duplicate groups:       %d\n", response.Summary.DuplicateGroups)
	fmt.Fprintf(&b, "Duplicated lines:       %d\n", response.Summary.TotalDuplicatedLines)
	fmt.Fprintf(&b, "Potential line savings: %d\n", response.Summary.PotentialLineSavings)
	fmt.Fprintf(&b, "Analysis time:          %.2fs\n", response.Summary.AnalysisTimeSeconds)
	b.WriteString("\n")

	for _, group := range response.Groups {
		fmt.Fprintf(&b, "%s (similarity %.1f%%)\n",
			color.GreenString("Group #%d", group.ID), group.Similarity*100)
		for _, instance := range group.Instances {
			fmt.Fprintf(&b, "  %s:%s\n", instance.File, instance.Lines)
		}
		b.WriteString("\n")
	}

	if len(response.Suggestions) > 0 {
		b.WriteString(color.CyanString("Refactoring Suggestions"))
		b.WriteString("\n")
		b.WriteString(strings.Repeat("-", 60))
		b.WriteString("\n")
		for i, suggestion := range response.Suggestions {
			fmt.Fprintf(&b, "%d. score %.1f, ~%d lines saved",
				i+1, suggestion.Score, suggestion.LinesSaved)
			if suggestion.Recommendation != nil {
				fmt.Fprintf(&b, " [%s]\n   %s",
					suggestion.Recommendation.Priority, suggestion.Recommendation.Text)
				if top := suggestion.Recommendation.TopStrategy(); top != nil {
					fmt.Fprintf(&b, "\n   best strategy: %s (suitability %.0f)", top.Name, top.Suitability)
				}
			}
			if suggestion.EnrichmentError != "" {
				fmt.Fprintf(&b, "\n   %s", color.YellowString("enrichment failed: %s", suggestion.EnrichmentError))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	for _, warning := range response.Warnings {
		fmt.Fprintln(&b, color.YellowString("warning: %s", warning))
	}

	if _, err := io.WriteString(writer, b.String()); err != nil {
		return domain.NewOutputError("failed to write output", err)
	}
	return nil
}

// formatJSON renders the response as indented JSON
func (f *OutputFormatterImpl) formatJSON(response *domain.AnalyzeResponse, writer io.Writer) error {
	enc := json.NewEncoder(writer)
	enc.SetIndent("", "  ")
	if err := enc.Encode(response); err != nil {
		return domain.NewOutputError("failed to encode JSON output", err)
	}
	return nil
}

// formatYAML renders the response as YAML
func (f *OutputFormatterImpl) formatYAML(response *domain.AnalyzeResponse, writer io.Writer) error {
	enc := yaml.NewEncoder(writer)
	defer func() { _ = enc.Close() }()
	if err := enc.Encode(response); err != nil {
		return domain.NewOutputError("failed to encode YAML output", err)
	}
	return nil
}

// formatCSV renders one row per group instance
func (f *OutputFormatterImpl) formatCSV(response *domain.AnalyzeResponse, writer io.Writer) error {
	w := csv.NewWriter(writer)

	header := []string{"group_id", "similarity", "file", "lines"}
	if err := w.Write(header); err != nil {
		return domain.NewOutputError("failed to write CSV output", err)
	}

	for _, group := range response.Groups {
		for _, instance := range group.Instances {
			row := []string{
				strconv.Itoa(group.ID),
				strconv.FormatFloat(group.Similarity, 'f', 3, 64),
				instance.File,
				instance.Lines,
			}
			if err := w.Write(row); err != nil {
				return domain.NewOutputError("failed to write CSV output", err)
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return domain.NewOutputError("failed to flush CSV output", err)
	}
	return nil
}
