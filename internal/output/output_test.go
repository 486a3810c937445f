package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/Shadowhackercz/AuthMeReloaded/internal/domain/audit"
	"github.com/Shadowhackercz/AuthMeReloaded/internal/domain/command"
	"github.com/Shadowhackercz/AuthMeReloaded/internal/domain/permissions"
	"github.com/goccy/go-yaml"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestTree() []*command.Description {
	base := command.NewBuilder().
		Labels("authme", "auth").
		Description("AuthMe op commands").
		Register()
	command.NewBuilder().
		Parent(base).
		Labels("reload", "rld").
		Description("Reload permissions").
		Permission(permissions.NewNode("authme.admin.reload", permissions.OpOnly)).
		Executable("authme.reload").
		Register()
	return []*command.Description{base}
}

func createTestReport() *Report {
	rec := &audit.DispatchRecord{
		ID:         uuid.MustParse("6f1c2a8e-4b1d-4d9e-9a52-0c5f7e3b2a10"),
		At:         time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC),
		Sender:     "CONSOLE",
		Parts:      []string{"authme", "reload"},
		Status:     command.StatusSuccess,
		Command:    "/authme reload",
		Difference: 0,
	}
	return &Report{
		Commands:   DescribeTree(createTestTree(), func(d *command.Description) string { return d.CommandPath() }),
		Dispatches: []DispatchInfo{DescribeDispatch(rec, []string{"reloaded"})},
	}
}

func TestDescribeTree(t *testing.T) {
	infos := DescribeTree(createTestTree(), func(d *command.Description) string { return "usage " + d.Label() })

	require.Len(t, infos, 2)
	assert.Equal(t, CommandInfo{
		Path:        "/authme",
		Usage:       "usage authme",
		Description: "AuthMe op commands",
		Aliases:     []string{"auth"},
	}, infos[0])
	assert.Equal(t, "authme.reload", infos[1].Type)
	assert.Equal(t, "authme.admin.reload", infos[1].Permission)
	assert.Equal(t, "op_only", infos[1].Default)
	assert.Equal(t, []string{"rld"}, infos[1].Aliases)
}

func TestDescribeDispatch(t *testing.T) {
	info := createTestReport().Dispatches[0]

	assert.Equal(t, "/authme reload", info.Invocation)
	assert.Equal(t, "SUCCESS", info.Status)
	assert.Equal(t, "6f1c2a8e-4b1d-4d9e-9a52-0c5f7e3b2a10", info.ID)
	assert.Equal(t, []string{"reloaded"}, info.Messages)
}

func TestNew(t *testing.T) {
	for _, format := range append(Formats, "") {
		f, err := New(format, &bytes.Buffer{})
		require.NoError(t, err, format)
		assert.NotNil(t, f)
	}

	_, err := New("xml", &bytes.Buffer{})
	assert.ErrorContains(t, err, "unknown format")
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONFormatter(&buf, true).Format(createTestReport()))

	var decoded Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Len(t, decoded.Commands, 2)
	require.Len(t, decoded.Dispatches, 1)
	assert.Equal(t, "CONSOLE", decoded.Dispatches[0].Sender)
	assert.True(t, strings.HasSuffix(buf.String(), "\n"))
}

func TestYAMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewYAMLFormatter(&buf).Format(createTestReport()))

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Contains(t, decoded, "commands")
	assert.Contains(t, decoded, "dispatches")
	assert.Contains(t, buf.String(), "path: /authme reload")
}

func TestTableFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTableFormatter(&buf).Format(createTestReport()))

	out := buf.String()
	assert.Contains(t, out, "USAGE")
	assert.Contains(t, out, "authme.admin.reload (op_only)")
	assert.Contains(t, out, "reloaded\n")
	assert.Contains(t, out, "12:30:00")
	assert.Contains(t, out, "SUCCESS")
}

func TestTableFormatter_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTableFormatter(&buf).Format(&Report{}))

	assert.Equal(t, "Nothing to show.\n", buf.String())
}
