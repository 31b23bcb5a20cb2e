package analyzer

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/ludo-technologies/refakt/domain"
)

// VariationClassifier infers what kind of difference a token or line pair
// represents and how hard it is to parameterize away.
type VariationClassifier struct{}

// NewVariationClassifier creates a new variation classifier
func NewVariationClassifier() *VariationClassifier {
	return &VariationClassifier{}
}

var (
	identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	numericPattern    = regexp.MustCompile(`^-?[0-9]+(\.[0-9]+)?$`)
	annotationPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*\s*:\s*\S`)
	callPattern       = regexp.MustCompile(`([A-Za-z_][A-Za-z0-9_.]*)\s*\(`)
)

var controlKeywords = []string{"for ", "while ", "if ", "elif ", "else", "switch ", "case "}

// Classify categorizes one differing pair. Explicit kinds map directly; an
// unknown kind is inferred from the old value's content.
func (vc *VariationClassifier) Classify(kind, oldValue, newValue string) *domain.Variation {
	category := vc.inferCategory(kind, oldValue)
	severity := vc.inferSeverity(category, oldValue, newValue)

	v := &domain.Variation{
		Kind:            kind,
		OldValue:        oldValue,
		NewValue:        newValue,
		Category:        category,
		Severity:        severity,
		Parameterizable: severity != domain.SeverityHigh,
	}
	v.SuggestedParamName = vc.suggestParamName(category, oldValue)
	v.Complexity = vc.scoreComplexity(category, severity, oldValue, newValue)

	return v
}

// inferCategory maps explicit kinds directly and falls back to content
// inference for unknown kinds.
func (vc *VariationClassifier) inferCategory(kind, oldValue string) domain.VariationCategory {
	switch strings.ToLower(kind) {
	case "literal", "number", "boolean", "string":
		return domain.CategoryLiteral
	case "identifier", "variable", "name":
		return domain.CategoryIdentifier
	case "type", "annotation":
		return domain.CategoryType
	case "expression", "call":
		return domain.CategoryExpression
	case "logic", "condition":
		return domain.CategoryLogic
	}

	trimmed := strings.TrimSpace(oldValue)
	switch {
	case hasControlKeyword(trimmed):
		return domain.CategoryLogic
	case annotationPattern.MatchString(trimmed) && !strings.Contains(trimmed, "("):
		return domain.CategoryType
	case isQuoted(trimmed) || numericPattern.MatchString(trimmed):
		return domain.CategoryLiteral
	case strings.ContainsAny(trimmed, "+-*/%") || callPattern.MatchString(trimmed):
		return domain.CategoryExpression
	case identifierPattern.MatchString(trimmed):
		return domain.CategoryIdentifier
	default:
		return domain.CategoryExpression
	}
}

// inferSeverity grades a variation. Literals and simple renames are LOW;
// shape-changing renames, generic types and plain expressions are MEDIUM;
// callee changes and anything in the logic category are HIGH.
func (vc *VariationClassifier) inferSeverity(category domain.VariationCategory, oldValue, newValue string) domain.VariationSeverity {
	switch category {
	case domain.CategoryLiteral:
		return domain.SeverityLow
	case domain.CategoryIdentifier:
		if wordCount(oldValue) != wordCount(newValue) {
			return domain.SeverityMedium
		}
		return domain.SeverityLow
	case domain.CategoryType:
		if isGenericType(oldValue) || isGenericType(newValue) {
			return domain.SeverityMedium
		}
		return domain.SeverityLow
	case domain.CategoryExpression:
		if calleeChanged(oldValue, newValue) {
			return domain.SeverityHigh
		}
		return domain.SeverityMedium
	default: // logic
		return domain.SeverityHigh
	}
}

// suggestParamName derives a parameter name from the old value's shape.
func (vc *VariationClassifier) suggestParamName(category domain.VariationCategory, oldValue string) string {
	trimmed := strings.TrimSpace(oldValue)
	unquoted := trimmed
	if isQuoted(trimmed) {
		unquoted = trimmed[1 : len(trimmed)-1]
	}

	switch category {
	case domain.CategoryLiteral:
		switch {
		case looksLikePath(unquoted):
			return "target_path"
		case numericPattern.MatchString(trimmed):
			return "value"
		case isQuoted(trimmed):
			return "text_value"
		default:
			return "value"
		}
	case domain.CategoryIdentifier:
		return "identifier"
	case domain.CategoryType:
		return "type_param"
	default:
		return "expression"
	}
}

// scoreComplexity maps category and severity onto the numeric scale.
func (vc *VariationClassifier) scoreComplexity(category domain.VariationCategory, severity domain.VariationSeverity, oldValue, newValue string) domain.VariationComplexity {
	switch {
	case category == domain.CategoryLogic:
		return domain.VariationComplexity{
			Score:     6,
			Level:     domain.ComplexityHigh,
			Reasoning: "logic changes alter control flow and cannot be parameterized safely",
		}
	case severity == domain.SeverityHigh:
		return domain.VariationComplexity{
			Score:     5,
			Level:     domain.ComplexityHigh,
			Reasoning: "the called function itself differs between instances",
		}
	case category == domain.CategoryIdentifier && wordCount(oldValue) != wordCount(newValue):
		return domain.VariationComplexity{
			Score:     2,
			Level:     domain.ComplexityLow,
			Reasoning: "identifier rename with a different word shape",
		}
	case category == domain.CategoryExpression:
		return domain.VariationComplexity{
			Score:     4,
			Level:     domain.ComplexityMedium,
			Reasoning: "expression difference, parameterizable with care",
		}
	case category == domain.CategoryType && severity == domain.SeverityMedium:
		return domain.VariationComplexity{
			Score:     3,
			Level:     domain.ComplexityMedium,
			Reasoning: "generic type difference, may require a type parameter",
		}
	default:
		return domain.VariationComplexity{
			Score:     1,
			Level:     domain.ComplexityLow,
			Reasoning: "simple substitution",
		}
	}
}

// VariationInput is one raw differing pair for batch classification.
type VariationInput struct {
	Kind     string
	OldValue string
	NewValue string
}

// ClassifyBatch classifies every input and summarizes counts and
// complexity. The overall refactoring complexity is none for an empty
// batch, low when every variation is LOW, high when any logic variation is
// present, and medium otherwise.
func (vc *VariationClassifier) ClassifyBatch(inputs []VariationInput) ([]*domain.Variation, *domain.VariationSummary) {
	summary := &domain.VariationSummary{
		ByCategory: make(map[domain.VariationCategory]int),
		BySeverity: make(map[domain.VariationSeverity]int),
	}
	if len(inputs) == 0 {
		summary.RefactoringComplexity = domain.RefactoringComplexityNone
		return []*domain.Variation{}, summary
	}

	variations := make([]*domain.Variation, 0, len(inputs))
	totalScore := 0
	allLow := true
	anyLogic := false

	for _, in := range inputs {
		v := vc.Classify(in.Kind, in.OldValue, in.NewValue)
		variations = append(variations, v)

		summary.ByCategory[v.Category]++
		summary.BySeverity[v.Severity]++
		if v.Parameterizable {
			summary.ParameterizableCount++
		}
		if v.Severity != domain.SeverityLow {
			allLow = false
		}
		if v.Category == domain.CategoryLogic {
			anyLogic = true
		}

		score := v.Complexity.Score
		totalScore += score
		if summary.MinComplexity == 0 || score < summary.MinComplexity {
			summary.MinComplexity = score
		}
		if score > summary.MaxComplexity {
			summary.MaxComplexity = score
		}
	}

	summary.Total = len(variations)
	summary.AvgComplexity = float64(totalScore) / float64(len(variations))

	switch {
	case anyLogic:
		summary.RefactoringComplexity = domain.RefactoringComplexityHigh
	case allLow:
		summary.RefactoringComplexity = domain.RefactoringComplexityLow
	default:
		summary.RefactoringComplexity = domain.RefactoringComplexityMedium
	}

	return variations, summary
}

// Helpers

func hasControlKeyword(s string) bool {
	for _, kw := range controlKeywords {
		if strings.HasPrefix(s, kw) || strings.Contains(s, " "+kw) {
			return true
		}
	}
	return false
}

func isQuoted(s string) bool {
	if len(s) < 2 {
		return false
	}
	first, last := s[0], s[len(s)-1]
	return (first == '"' && last == '"') || (first == '\'' && last == '\'')
}

func looksLikePath(s string) bool {
	return strings.Contains(s, "/") || strings.Contains(s, "\\")
}

func isGenericType(s string) bool {
	return strings.ContainsAny(s, "[]<>")
}

// calleeChanged reports whether two expressions call different functions.
func calleeChanged(oldValue, newValue string) bool {
	oldCall := callPattern.FindStringSubmatch(oldValue)
	newCall := callPattern.FindStringSubmatch(newValue)
	if oldCall == nil || newCall == nil {
		return false
	}
	return oldCall[1] != newCall[1]
}

// wordCount counts the words of a snake_case or camelCase identifier.
func wordCount(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	count := 1
	prevLower := false
	for _, r := range s {
		switch {
		case r == '_' || r == '-':
			count++
			prevLower = false
		case unicode.IsUpper(r) && prevLower:
			count++
			prevLower = false
		default:
			prevLower = unicode.IsLower(r) || unicode.IsDigit(r)
		}
	}
	return count
}
