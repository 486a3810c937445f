package permissions

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTerminalPrompter_IsInteractive(t *testing.T) {
	// Not t.Parallel() because it interacts with os.Stdin
	prompter := NewTerminalPrompter()
	assert.IsType(t, true, prompter.IsInteractive())
}

func TestDescribePattern(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pattern  string
		expected string
	}{
		{"*", "Allow every permission"},
		{"authme.admin.*", "Allow every permission under authme.admin"},
		{"AUTHME.ADMIN.RELOAD", "Allow authme.admin.reload"},
		{"-authme.admin.*", "Deny every permission under authme.admin"},
		{"-*", "Deny every permission"},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			assert.Equal(t, tt.expected, DescribePattern(tt.pattern))
		})
	}
}

func TestTerminalPrompter_FormatNonInteractiveError(t *testing.T) {
	t.Parallel()

	err := NewTerminalPrompter().FormatNonInteractiveError("Grant", "alice",
		[]string{"authme.admin.*", "-authme.admin.reload"}, "/srv/permissions.yaml")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Grant for alice needs confirmation")
	assert.Contains(t, err.Error(), "  - Allow every permission under authme.admin")
	assert.Contains(t, err.Error(), "  - Deny authme.admin.reload")
	assert.Contains(t, err.Error(), "2. Use the --yes flag")
	assert.Contains(t, err.Error(), "3. Manually edit: /srv/permissions.yaml")
}
