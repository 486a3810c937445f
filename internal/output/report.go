// Package output renders command listings and dispatch outcomes for the CLI.
package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Shadowhackercz/AuthMeReloaded/internal/domain/audit"
	"github.com/Shadowhackercz/AuthMeReloaded/internal/domain/command"
)

// Report is the document every formatter renders.
type Report struct {
	Commands   []CommandInfo  `json:"commands,omitempty" yaml:"commands,omitempty"`
	Dispatches []DispatchInfo `json:"dispatches,omitempty" yaml:"dispatches,omitempty"`
}

// CommandInfo describes one node of the command tree.
type CommandInfo struct {
	Path        string   `json:"path" yaml:"path"`
	Usage       string   `json:"usage" yaml:"usage"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Type        string   `json:"type,omitempty" yaml:"type,omitempty"`
	Permission  string   `json:"permission,omitempty" yaml:"permission,omitempty"`
	Default     string   `json:"default,omitempty" yaml:"default,omitempty"`
	Aliases     []string `json:"aliases,omitempty" yaml:"aliases,omitempty"`
}

// DispatchInfo describes one dispatch and the messages it produced.
type DispatchInfo struct {
	At         time.Time `json:"at" yaml:"at"`
	ID         string    `json:"id" yaml:"id"`
	Sender     string    `json:"sender" yaml:"sender"`
	Invocation string    `json:"invocation" yaml:"invocation"`
	Status     string    `json:"status" yaml:"status"`
	Command    string    `json:"command,omitempty" yaml:"command,omitempty"`
	Messages   []string  `json:"messages,omitempty" yaml:"messages,omitempty"`
	Difference float64   `json:"difference" yaml:"difference"`
}

// Formatter writes a report.
type Formatter interface {
	Format(report *Report) error
}

// Formats lists the accepted format names.
var Formats = []string{"table", "json", "yaml"}

// New returns the formatter for format.
func New(format string, w io.Writer) (Formatter, error) {
	switch format {
	case "table", "":
		return NewTableFormatter(w), nil
	case "json":
		return NewJSONFormatter(w, true), nil
	case "yaml":
		return NewYAMLFormatter(w), nil
	default:
		return nil, fmt.Errorf("unknown format %q (valid: %s)", format, strings.Join(Formats, ", "))
	}
}

// DescribeTree lists every node of the tree depth-first. usage renders the
// syntax of a node.
func DescribeTree(roots []*command.Description, usage func(*command.Description) string) []CommandInfo {
	var infos []CommandInfo
	command.Walk(roots, func(d *command.Description) bool {
		info := CommandInfo{
			Path:        d.CommandPath(),
			Usage:       usage(d),
			Description: d.Description(),
			Type:        d.Executable().String(),
		}
		if labels := d.Labels(); len(labels) > 1 {
			info.Aliases = labels[1:]
		}
		if p := d.Permission(); p != nil {
			info.Permission = p.Name
			info.Default = p.Default.String()
		}
		infos = append(infos, info)
		return true
	})
	return infos
}

// DescribeDispatch converts a dispatch record.
func DescribeDispatch(rec *audit.DispatchRecord, messages []string) DispatchInfo {
	return DispatchInfo{
		At:         rec.At,
		ID:         rec.ID.String(),
		Sender:     rec.Sender,
		Invocation: "/" + strings.Join(rec.Parts, " "),
		Status:     rec.Status.String(),
		Command:    rec.Command,
		Difference: rec.Difference,
		Messages:   messages,
	}
}
