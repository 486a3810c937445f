package permissions

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
)

// TerminalPrompter asks for confirmation before permission changes are written.
type TerminalPrompter struct{}

// NewTerminalPrompter creates a new TerminalPrompter.
func NewTerminalPrompter() *TerminalPrompter {
	return &TerminalPrompter{}
}

// IsInteractive checks if we're running in an interactive terminal.
func (p *TerminalPrompter) IsInteractive() bool {
	// Check if stdin is a terminal (that's what we're reading from)
	fileInfo, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	// Check if it's a character device (terminal) and not a pipe/file
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}

// ConfirmChange asks whether to apply a change of patterns for subject.
func (p *TerminalPrompter) ConfirmChange(action, subject string, patterns []string) (bool, error) {
	lines := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		lines = append(lines, "  ✓ "+DescribePattern(pattern))
	}

	var confirmed bool
	err := huh.NewConfirm().
		Title(fmt.Sprintf("%s for %s?", action, subject)).
		Description(strings.Join(lines, "\n")).
		Affirmative("Yes").
		Negative("No").
		Value(&confirmed).
		Run()
	if err != nil {
		return false, err
	}
	return confirmed, nil
}

// DescribePattern returns a human-readable description of a node pattern.
func DescribePattern(pattern string) string {
	pattern = strings.ToLower(strings.TrimSpace(pattern))
	verb := "Allow"
	if strings.HasPrefix(pattern, "-") {
		verb = "Deny"
		pattern = strings.TrimPrefix(pattern, "-")
	}

	switch {
	case pattern == "*":
		return verb + " every permission"
	case strings.HasSuffix(pattern, ".*"):
		return fmt.Sprintf("%s every permission under %s", verb, strings.TrimSuffix(pattern, ".*"))
	default:
		return fmt.Sprintf("%s %s", verb, pattern)
	}
}

// FormatNonInteractiveError creates a helpful error message for non-interactive mode.
func (p *TerminalPrompter) FormatNonInteractiveError(action, subject string, patterns []string, path string) error {
	var msg strings.Builder
	fmt.Fprintf(&msg, "%s for %s needs confirmation (running in non-interactive mode)\n\n", action, subject)
	msg.WriteString("Pending changes:\n")

	for _, pattern := range patterns {
		fmt.Fprintf(&msg, "  - %s\n", DescribePattern(pattern))
	}

	msg.WriteString("\nTo apply these changes:\n")
	msg.WriteString("  1. Run interactively and confirm when prompted\n")
	msg.WriteString("  2. Use the --yes flag\n")
	fmt.Fprintf(&msg, "  3. Manually edit: %s\n", path)

	return fmt.Errorf("%s", msg.String())
}
