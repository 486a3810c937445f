package output

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"
)

// TableFormatter formats reports as human-readable tables.
type TableFormatter struct {
	writer io.Writer
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{writer: w}
}

// Format writes each non-empty section of the report as a table.
func (f *TableFormatter) Format(report *Report) error {
	if len(report.Commands) == 0 && len(report.Dispatches) == 0 {
		_, err := fmt.Fprintln(f.writer, "Nothing to show.")
		return err
	}
	if len(report.Commands) > 0 {
		if err := f.formatCommands(report.Commands); err != nil {
			return err
		}
	}
	if len(report.Dispatches) > 0 {
		if err := f.formatDispatches(report.Dispatches); err != nil {
			return err
		}
	}
	return nil
}

func (f *TableFormatter) formatCommands(commands []CommandInfo) error {
	w := tabwriter.NewWriter(f.writer, 0, 0, 3, ' ', 0)
	if _, err := fmt.Fprintln(w, "USAGE\tALIASES\tPERMISSION\tDESCRIPTION"); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, c := range commands {
		permission := "-"
		if c.Permission != "" {
			permission = c.Permission + " (" + c.Default + ")"
		}
		aliases := "-"
		if len(c.Aliases) > 0 {
			aliases = strings.Join(c.Aliases, ",")
		}
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.Usage, aliases, permission, c.Description); err != nil {
			return fmt.Errorf("failed to write command info: %w", err)
		}
	}
	return w.Flush()
}

func (f *TableFormatter) formatDispatches(dispatches []DispatchInfo) error {
	for _, d := range dispatches {
		for _, msg := range d.Messages {
			if _, err := fmt.Fprintln(f.writer, msg); err != nil {
				return err
			}
		}
	}

	w := tabwriter.NewWriter(f.writer, 0, 0, 3, ' ', 0)
	if _, err := fmt.Fprintln(w, "TIME\tSENDER\tINVOCATION\tSTATUS"); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, d := range dispatches {
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			d.At.Format(time.TimeOnly), d.Sender, d.Invocation, d.Status); err != nil {
			return fmt.Errorf("failed to write dispatch info: %w", err)
		}
	}
	return w.Flush()
}
