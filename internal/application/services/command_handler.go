package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	apperrors "github.com/Shadowhackercz/AuthMeReloaded/internal/application/errors"
	"github.com/Shadowhackercz/AuthMeReloaded/internal/application/ports"
	"github.com/Shadowhackercz/AuthMeReloaded/internal/domain/audit"
	"github.com/Shadowhackercz/AuthMeReloaded/internal/domain/command"
	"github.com/google/uuid"
)

// Messages sent to the sender by the dispatcher itself.
const (
	MessageNoPermission       = "You don't have permission to use this command!"
	MessageIncorrectArguments = "Incorrect command arguments!"
	MessageUnknownCommand     = "Unknown command!"
)

// CommandHandler turns a host invocation into either the execution of a
// command or a set of diagnostic messages. It holds no locks; it is safe for
// concurrent use when its collaborators are.
type CommandHandler struct {
	injector            ports.Injector
	mapper              ports.CommandMapper
	permissionsManager  ports.PermissionsManager
	helpProvider        ports.HelpProvider
	recorder            ports.DispatchRecorder
	logger              *slog.Logger
	commands            map[command.CommandType]command.Executable
	pluginName          string
	mainCommand         string
	suggestionThreshold float64
}

// HandlerOption configures a CommandHandler.
type HandlerOption func(*CommandHandler)

// WithSuggestionThreshold sets the difference below which an unknown label
// gets a "Did you mean" hint.
func WithSuggestionThreshold(threshold float64) HandlerOption {
	return func(h *CommandHandler) {
		h.suggestionThreshold = threshold
	}
}

// WithRecorder stores every dispatch outcome.
func WithRecorder(recorder ports.DispatchRecorder) HandlerOption {
	return func(h *CommandHandler) {
		h.recorder = recorder
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) HandlerOption {
	return func(h *CommandHandler) {
		h.logger = logger
	}
}

// WithPluginName sets the name used in the "Failed to parse" message.
func WithPluginName(name string) HandlerOption {
	return func(h *CommandHandler) {
		h.pluginName = name
	}
}

// WithMainCommand sets the label used for help pointers when a result names
// no command.
func WithMainCommand(label string) HandlerOption {
	return func(h *CommandHandler) {
		h.mainCommand = label
	}
}

// NewCommandHandler creates a handler and instantiates every command type the
// mapper knows about. A type the injector cannot build, or builds as something
// that is not an executable command, is a wiring error.
func NewCommandHandler(
	injector ports.Injector,
	mapper ports.CommandMapper,
	permissionsManager ports.PermissionsManager,
	helpProvider ports.HelpProvider,
	opts ...HandlerOption,
) (*CommandHandler, error) {
	h := &CommandHandler{
		injector:            injector,
		mapper:              mapper,
		permissionsManager:  permissionsManager,
		helpProvider:        helpProvider,
		suggestionThreshold: command.SuggestionThreshold,
		pluginName:          "AuthMe",
		mainCommand:         "authme",
		logger:              slog.Default(),
		commands:            make(map[command.CommandType]command.Executable),
	}
	for _, opt := range opts {
		opt(h)
	}

	for _, t := range mapper.CommandTypes() {
		exec, err := h.instantiate(t)
		if err != nil {
			return nil, err
		}
		h.commands[t] = exec
	}
	h.logger.Debug("command handler ready", "commands", len(h.commands))

	return h, nil
}

// ProcessCommand maps the invocation and then runs the command or explains to
// the sender why it could not be run. It never fails; every outcome is either
// an execution or messages to the sender.
func (h *CommandHandler) ProcessCommand(ctx context.Context, sender command.Sender, label string, tokens []string) {
	dispatchID := uuid.New()
	parts := NormalizeParts(label, tokens)
	logger := h.logger.With("dispatch_id", dispatchID.String(), "sender", sender.Name())

	result := h.mapper.MapPartsToCommand(sender, parts)
	logger.Debug("mapped command", "parts", parts, "status", result.Status().String(), "difference", result.Difference())

	switch result.Status() {
	case command.StatusSuccess:
		h.executeCommand(ctx, sender, result)
	case command.StatusMissingBaseCommand:
		sender.SendMessage(fmt.Sprintf("Failed to parse %s command!", h.pluginName))
	case command.StatusIncorrectArguments:
		h.sendImproperArgumentsMessage(sender, result)
	case command.StatusUnknownLabel:
		h.sendUnknownCommandMessage(sender, result)
	case command.StatusNoPermission:
		sender.SendMessage(MessageNoPermission)
	default:
		panic(apperrors.NewInvariantError("", fmt.Sprintf("unknown result status %q", result.Status()), nil))
	}

	h.record(ctx, logger, audit.NewDispatchRecord(dispatchID, sender.Name(), parts, result))
}

func (h *CommandHandler) executeCommand(ctx context.Context, sender command.Sender, result *command.FoundResult) {
	t := result.Description().Executable()
	exec, ok := h.commands[t]
	if !ok {
		// The mapper may have grown a type after construction; build it for
		// this call only so the handler stays read-only.
		var err error
		if exec, err = h.instantiate(t); err != nil {
			panic(err)
		}
	}
	exec.ExecuteCommand(ctx, sender, result.Arguments())
}

func (h *CommandHandler) instantiate(t command.CommandType) (command.Executable, error) {
	if t.IsZero() {
		return nil, apperrors.NewInvariantError(t, "description has no executable type", nil)
	}
	instance, err := h.injector.NewInstance(t)
	if err != nil {
		return nil, apperrors.NewInvariantError(t, "injector could not create command", err)
	}
	exec, ok := instance.(command.Executable)
	if !ok {
		return nil, apperrors.NewInvariantError(t, fmt.Sprintf("injector returned %T, not an executable command", instance), nil)
	}
	return exec, nil
}

func (h *CommandHandler) sendImproperArgumentsMessage(sender command.Sender, result *command.FoundResult) {
	desc := result.Description()
	if !h.permissionsManager.HasPermission(sender, desc.Permission()) {
		sender.SendMessage(MessageNoPermission)
		return
	}

	sender.SendMessage(MessageIncorrectArguments)
	h.helpProvider.OutputHelp(sender, result, ports.HelpShowArguments)

	labels := result.Labels()
	base := h.mainCommand
	if len(labels) > 0 {
		base = labels[0]
	}
	childLabel := ""
	if len(labels) >= 2 {
		childLabel = labels[1]
	}
	sender.SendMessage(strings.TrimSpace(fmt.Sprintf("Detailed help: /%s help %s", base, childLabel)))
}

func (h *CommandHandler) sendUnknownCommandMessage(sender command.Sender, result *command.FoundResult) {
	sender.SendMessage(MessageUnknownCommand)

	desc := result.Description()
	if desc != nil && result.Difference() < h.suggestionThreshold {
		sender.SendMessage(fmt.Sprintf("Did you mean %s?", desc.CommandPath()))
	}

	sender.SendMessage(fmt.Sprintf("Use the command /%s help to view help.", h.helpBase(result)))
}

// helpBase picks the base command to point the sender at: the root of the
// nearest command, else what the sender typed, else the main command.
func (h *CommandHandler) helpBase(result *command.FoundResult) string {
	if desc := result.Description(); desc != nil {
		return desc.Root().Label()
	}
	if labels := result.Labels(); len(labels) > 0 && strings.TrimSpace(labels[0]) != "" {
		return labels[0]
	}
	return h.mainCommand
}

func (h *CommandHandler) record(ctx context.Context, logger *slog.Logger, rec *audit.DispatchRecord) {
	logger.Info("command dispatched",
		"command", rec.Command,
		"status", rec.Status.String(),
	)
	if h.recorder == nil {
		return
	}
	if err := h.recorder.Record(ctx, rec); err != nil {
		logger.Warn("failed to record dispatch", "error", err)
	}
}
