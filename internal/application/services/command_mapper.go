// Package services contains the application services of the command dispatcher.
package services

import (
	"errors"
	"math"
	"strings"

	apperrors "github.com/Shadowhackercz/AuthMeReloaded/internal/application/errors"
	"github.com/Shadowhackercz/AuthMeReloaded/internal/application/ports"
	"github.com/Shadowhackercz/AuthMeReloaded/internal/domain/command"
	domainservices "github.com/Shadowhackercz/AuthMeReloaded/internal/domain/services"
)

// HelpCommandType is the type reference of the built-in help command. Results
// for it get the base label prepended to their arguments so the help command
// can map them again.
const HelpCommandType command.CommandType = "authme.help"

// Ensure interface compliance
var _ ports.CommandMapper = (*CommandMapper)(nil)

// CommandMapper resolves parts against the registry tree.
type CommandMapper struct {
	permissionsManager  ports.PermissionsManager
	helpType            command.CommandType
	baseCommands        []*command.Description
	commandTypes        []command.CommandType
	suggestionThreshold float64
}

// MapperOption configures a CommandMapper.
type MapperOption func(*CommandMapper)

// WithMapperSuggestionThreshold sets the difference below which a child label
// is considered a plausible typo of the next part.
func WithMapperSuggestionThreshold(threshold float64) MapperOption {
	return func(m *CommandMapper) {
		m.suggestionThreshold = threshold
	}
}

// WithHelpCommandType overrides the type treated as the help command.
func WithHelpCommandType(t command.CommandType) MapperOption {
	return func(m *CommandMapper) {
		m.helpType = t
	}
}

// NewCommandMapper validates the tree and creates a mapper over it.
func NewCommandMapper(baseCommands []*command.Description, permissionsManager ports.PermissionsManager, opts ...MapperOption) (*CommandMapper, error) {
	if err := command.ValidateTree(baseCommands); err != nil {
		var treeErr *command.TreeError
		if errors.As(err, &treeErr) {
			return nil, apperrors.NewValidationError("commands", "invalid command tree", treeErr.Issues...)
		}
		return nil, err
	}

	m := &CommandMapper{
		baseCommands:        append([]*command.Description(nil), baseCommands...),
		permissionsManager:  permissionsManager,
		suggestionThreshold: command.SuggestionThreshold,
		helpType:            HelpCommandType,
	}
	for _, opt := range opts {
		opt(m)
	}

	seen := make(map[command.CommandType]bool)
	command.Walk(m.baseCommands, func(d *command.Description) bool {
		if d.IsExecutable() && !seen[d.Executable()] {
			seen[d.Executable()] = true
			m.commandTypes = append(m.commandTypes, d.Executable())
		}
		return true
	})

	return m, nil
}

// BaseCommands returns the root descriptions in registration order.
func (m *CommandMapper) BaseCommands() []*command.Description {
	return append([]*command.Description(nil), m.baseCommands...)
}

// CommandTypes returns every executable type of the tree in registration order.
func (m *CommandMapper) CommandTypes() []command.CommandType {
	return append([]command.CommandType(nil), m.commandTypes...)
}

// MapPartsToCommand finds the command that best matches parts.
//
// Labels are matched greedily down the tree. The deepest executable node on
// the matched path whose argument bounds fit its tail wins; the sender's
// permission then decides between SUCCESS and NO_PERMISSION. When nothing
// fits, the result names the nearest command with INCORRECT_ARGUMENTS or
// UNKNOWN_LABEL.
func (m *CommandMapper) MapPartsToCommand(sender command.Sender, parts []string) *command.FoundResult {
	if len(parts) == 0 {
		return command.NewFoundResult(nil, parts, nil, math.Inf(1), command.StatusMissingBaseCommand)
	}

	base := m.baseCommand(parts[0])
	if base == nil {
		if strings.TrimSpace(parts[0]) == "" {
			return command.NewFoundResult(nil, parts[:1], parts[1:], math.Inf(1), command.StatusMissingBaseCommand)
		}
		return m.closestBaseCommand(parts)
	}

	path := []*command.Description{base}
	for i := 1; i < len(parts); i++ {
		child := childWithLabel(path[len(path)-1], parts[i])
		if child == nil {
			break
		}
		path = append(path, child)
	}

	// Prefer the deepest node: "/authme help reload" goes to the help child
	// rather than to a parent that would take "help" as an argument.
	for i := len(path) - 1; i >= 0; i-- {
		node := path[i]
		if !node.IsExecutable() {
			continue
		}
		tail := parts[i+1:]
		if node.AcceptsArgumentCount(len(tail)) {
			result := command.NewFoundResult(node, parts[:i+1], tail, 0.0, m.permissionAwareStatus(sender, node))
			return m.transformResultForHelp(result)
		}
	}

	deepest := path[len(path)-1]
	depth := len(path)

	if deepest.HasChildren() && depth < len(parts) {
		child, difference := closestDescription(deepest.Children(), parts[depth])
		if child != nil && (difference < m.suggestionThreshold || !deepest.IsExecutable()) {
			return command.NewFoundResult(child, parts[:depth+1], parts[depth+1:], difference, command.StatusUnknownLabel)
		}
	}

	if !deepest.IsExecutable() {
		// A bare parent such as "/authme": nothing to suggest beyond its help.
		return command.NewFoundResult(deepest, parts[:depth], parts[depth:], math.Inf(1), command.StatusUnknownLabel)
	}

	return command.NewFoundResult(deepest, parts[:depth], parts[depth:], 0.0, command.StatusIncorrectArguments)
}

func (m *CommandMapper) baseCommand(label string) *command.Description {
	for _, base := range m.baseCommands {
		if base.HasLabel(label) {
			return base
		}
	}
	return nil
}

func (m *CommandMapper) closestBaseCommand(parts []string) *command.FoundResult {
	closest, difference := closestDescription(m.baseCommands, parts[0])
	return command.NewFoundResult(closest, parts[:1], parts[1:], difference, command.StatusUnknownLabel)
}

func (m *CommandMapper) permissionAwareStatus(sender command.Sender, desc *command.Description) command.ResultStatus {
	if m.permissionsManager.HasPermission(sender, desc.Permission()) {
		return command.StatusSuccess
	}
	return command.StatusNoPermission
}

// transformResultForHelp rewrites "/authme help reload" (labels [authme help],
// args [reload]) so the arguments read [authme reload], a path the help
// command can map on its own.
func (m *CommandMapper) transformResultForHelp(result *command.FoundResult) *command.FoundResult {
	desc := result.Description()
	if desc == nil || desc.Executable() != m.helpType {
		return result
	}
	labels := result.Labels()
	arguments := append([]string{labels[0]}, result.Arguments()...)
	return command.NewFoundResult(desc, labels, arguments, result.Difference(), result.Status())
}

func childWithLabel(parent *command.Description, label string) *command.Description {
	for _, child := range parent.Children() {
		if child.HasLabel(label) {
			return child
		}
	}
	return nil
}

// closestDescription returns the candidate whose labels are nearest to input.
// Ties go to executable candidates, then to the first registered.
func closestDescription(candidates []*command.Description, input string) (*command.Description, float64) {
	var closest *command.Description
	best := math.Inf(1)
	for _, c := range candidates {
		d := domainservices.ClosestLabelDifference(c, input)
		switch {
		case d < best:
			closest, best = c, d
		case d == best && closest != nil && !closest.IsExecutable() && c.IsExecutable():
			closest = c
		}
	}
	return closest, best
}
