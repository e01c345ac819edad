package platform

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"lightswitch/internal/models"
)

// DefaultCommandTimeout bounds every get/set command.
const DefaultCommandTimeout = 5 * time.Second

// CommandConfig describes the external commands that read and apply the mode.
// Commands are split on whitespace and run without a shell.
type CommandConfig struct {
	Get      string
	SetLight string
	SetDark  string
	Timeout  time.Duration
}

// CommandMode drives the appearance mode through external commands,
// e.g. gsettings on GNOME.
type CommandMode struct {
	get      []string
	setLight []string
	setDark  []string
	timeout  time.Duration

	run func(ctx context.Context, argv []string) ([]byte, error)
}

// NewCommandMode validates cfg and returns a controller.
func NewCommandMode(cfg CommandConfig) (*CommandMode, error) {
	c := &CommandMode{
		get:      strings.Fields(cfg.Get),
		setLight: strings.Fields(cfg.SetLight),
		setDark:  strings.Fields(cfg.SetDark),
		timeout:  cfg.Timeout,
		run:      runCommand,
	}
	if len(c.get) == 0 || len(c.setLight) == 0 || len(c.setDark) == 0 {
		return nil, errors.New("command mode needs get, set_light and set_dark commands")
	}
	if c.timeout <= 0 {
		c.timeout = DefaultCommandTimeout
	}
	return c, nil
}

func runCommand(ctx context.Context, argv []string) ([]byte, error) {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil && stderr.Len() > 0 {
		return out, fmt.Errorf("%w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return out, err
}

// classifyOutput maps command output onto a mode.
func classifyOutput(out string) (models.AppearanceMode, bool) {
	s := strings.ToLower(strings.TrimSpace(out))
	switch {
	case strings.Contains(s, "dark"):
		return models.Dark, true
	case strings.Contains(s, "light"), strings.Contains(s, "default"):
		return models.Light, true
	}
	return 0, false
}

func (c *CommandMode) runOp(ctx context.Context, op Op, argv []string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	out, err := c.run(ctx, argv)
	if err != nil {
		code := CodeUnknown
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			code = CodeTimeout
		} else if errors.Is(err, exec.ErrNotFound) {
			code = CodeUnavailable
		}
		return nil, newError(op, code, fmt.Errorf("%s: %w", argv[0], err))
	}
	return out, nil
}

// Get runs the get command and classifies its output.
func (c *CommandMode) Get(ctx context.Context) (models.AppearanceMode, error) {
	out, err := c.runOp(ctx, OpRead, c.get)
	if err != nil {
		return 0, err
	}
	m, ok := classifyOutput(string(out))
	if !ok {
		return 0, newError(OpRead, CodeBadOutput, fmt.Errorf("unrecognized output %q", strings.TrimSpace(string(out))))
	}
	return m, nil
}

// Set runs the command for mode.
func (c *CommandMode) Set(ctx context.Context, mode models.AppearanceMode) error {
	var argv []string
	switch mode {
	case models.Light:
		argv = c.setLight
	case models.Dark:
		argv = c.setDark
	default:
		return newError(OpWrite, CodeUnknown, fmt.Errorf("invalid mode %v", mode))
	}
	_, err := c.runOp(ctx, OpWrite, argv)
	return err
}
