package refactor

import (
	"fmt"
	"os"
	"strings"

	"github.com/ludo-technologies/refakt/domain"
)

// Validator checks generated code against simple language-specific syntax
// rules. Languages without a checker are assumed valid.
type Validator struct{}

// NewValidator creates a new validator
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateCode checks a code string for the given language.
func (v *Validator) ValidateCode(code, language string) *domain.ValidationResult {
	var errMsg string
	switch normalizeLanguage(language) {
	case "python":
		errMsg = checkPythonSyntax(code)
	case "javascript", "go":
		errMsg = checkBracketSyntax(code)
	default:
		// No checker for this language; assume valid.
		return &domain.ValidationResult{Valid: true}
	}

	if errMsg == "" {
		return &domain.ValidationResult{Valid: true}
	}
	return &domain.ValidationResult{
		Valid:        false,
		Error:        errMsg,
		SuggestedFix: SuggestFix(errMsg),
	}
}

// ValidateFile reads a file and validates its content.
func (v *Validator) ValidateFile(path, language string) *domain.ValidationResult {
	data, err := os.ReadFile(path)
	if err != nil {
		return &domain.ValidationResult{
			Valid:        false,
			Error:        fmt.Sprintf("cannot read file for validation: %v", err),
			SuggestedFix: "Review the syntax and try again",
		}
	}
	return v.ValidateCode(string(data), language)
}

// SuggestFix derives a fix suggestion by substring matching on the error
// text.
func SuggestFix(errMsg string) string {
	lower := strings.ToLower(errMsg)
	switch {
	case strings.Contains(lower, "indent"):
		return "Check the indentation: each block must be indented consistently"
	case strings.Contains(lower, "colon"):
		return "Add the missing ':' at the end of the statement"
	case strings.Contains(lower, "unexpected token"), strings.Contains(lower, "bracket"),
		strings.Contains(lower, "parenthesis"), strings.Contains(lower, "brace"):
		return "Check for unbalanced or misplaced punctuation"
	default:
		return "Review the syntax and try again"
	}
}

// blockKeywords are the Python statements that must end with a colon.
var blockKeywords = []string{"def ", "class ", "if ", "elif ", "for ", "while ", "with ", "try", "except", "finally", "else"}

// checkPythonSyntax applies lightweight structural rules: balanced
// brackets, colons on block statements, and indentation that is a multiple
// of the block's step.
func checkPythonSyntax(code string) string {
	if msg := checkBracketSyntax(code); msg != "" {
		return msg
	}

	for i, line := range strings.Split(code, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		for _, kw := range blockKeywords {
			if !strings.HasPrefix(trimmed, kw) && trimmed != strings.TrimSpace(kw) {
				continue
			}
			// Block statements must end with a colon (ignoring a trailing
			// comment).
			stmt := trimmed
			if idx := strings.Index(stmt, "#"); idx > 0 {
				stmt = strings.TrimSpace(stmt[:idx])
			}
			if !strings.HasSuffix(stmt, ":") && !strings.Contains(stmt, "(") {
				return fmt.Sprintf("line %d: missing colon after '%s'", i+1, strings.TrimSpace(kw))
			}
			break
		}

		if strings.HasPrefix(line, " ") {
			indent := len(line) - len(strings.TrimLeft(line, " "))
			if indent%2 != 0 {
				return fmt.Sprintf("line %d: unexpected indentation of %d spaces", i+1, indent)
			}
		}
	}

	return ""
}

// checkBracketSyntax verifies that (), [] and {} are balanced outside of
// string literals.
func checkBracketSyntax(code string) string {
	var stack []byte
	pairs := map[byte]byte{')': '(', ']': '[', '}': '{'}
	inString := false
	var quote byte

	for i := 0; i < len(code); i++ {
		c := code[i]
		if inString {
			if c == '\\' {
				i++
			} else if c == quote {
				inString = false
			}
			continue
		}
		switch c {
		case '"', '\'', '`':
			inString = true
			quote = c
		case '(', '[', '{':
			stack = append(stack, c)
		case ')', ']', '}':
			if len(stack) == 0 || stack[len(stack)-1] != pairs[c] {
				return fmt.Sprintf("unbalanced bracket: unexpected token %q", string(c))
			}
			stack = stack[:len(stack)-1]
		}
	}

	if len(stack) > 0 {
		return fmt.Sprintf("unbalanced bracket: %q is never closed", string(stack[len(stack)-1]))
	}
	return ""
}
