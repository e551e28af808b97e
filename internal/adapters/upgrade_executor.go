package adapters

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"project-upgrader/internal/ports"
	"project-upgrader/internal/shared"
	"project-upgrader/internal/types"
)

const DefaultUpgradeTimeout = 40 * time.Second

const (
	placeholderFilePath        = "FilePath"
	placeholderTargetFramework = "TargetFramework"
)

// UpgradeExecutorAdapter launches the external upgrade tool once per
// project. The command template is passed to ExeName as a single argument
// after ExeArgs, so a shell is the usual ExeName.
type UpgradeExecutorAdapter struct {
	Command       string
	ExeName       string
	ExeArgs       []string
	Timeout       time.Duration
	KillOnTimeout bool
}

func NewUpgradeExecutorAdapter(cfg types.UpgradeCommand) UpgradeExecutorAdapter {
	exe, args := defaultShell()
	if strings.TrimSpace(cfg.ExeName) != "" {
		exe = strings.TrimSpace(cfg.ExeName)
		args = cfg.ExeArgs
	}
	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = DefaultUpgradeTimeout
	}
	return UpgradeExecutorAdapter{
		Command:       cfg.Command,
		ExeName:       exe,
		ExeArgs:       append([]string(nil), args...),
		Timeout:       timeout,
		KillOnTimeout: cfg.KillOnTimeout,
	}
}

func defaultShell() (string, []string) {
	if runtime.GOOS == "windows" {
		return "cmd.exe", []string{"/c"}
	}
	return "sh", []string{"-c"}
}

// CommandLine returns the fully substituted command for node.
func (a UpgradeExecutorAdapter) CommandLine(node types.ProjectNode) string {
	return shared.ExpandPlaceholders(a.Command, map[string]string{
		placeholderFilePath:        node.ManifestPath,
		placeholderTargetFramework: node.TargetFramework,
	})
}

// Execute runs the tool and waits for whichever comes first: process exit
// or the timeout. A process that outlives the timeout keeps running unless
// KillOnTimeout is set. The tool's output is not captured.
func (a UpgradeExecutorAdapter) Execute(ctx context.Context, node types.ProjectNode) types.UpgradeOutcome {
	if err := ctx.Err(); err != nil {
		return types.Failed("canceled")
	}
	command := a.CommandLine(node)
	args := append(append([]string(nil), a.ExeArgs...), command)
	cmd := exec.Command(a.ExeName, args...)
	logger := log.Ctx(ctx).With().Str("project", node.Name).Logger()
	logger.Debug().Str("exe", a.ExeName).Str("command", command).Msg("starting upgrade tool")
	if err := cmd.Start(); err != nil {
		return types.Failed(fmt.Sprintf("failed to start upgrade tool %s: %v", a.ExeName, err))
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	timeout := a.Timeout
	if timeout <= 0 {
		timeout = DefaultUpgradeTimeout
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case err := <-done:
		exitCode := 0
		if err != nil {
			var exitErr *exec.ExitError
			if !errors.As(err, &exitErr) {
				return types.Failed(fmt.Sprintf("upgrade tool failed: %v", err))
			}
			exitCode = exitErr.ExitCode()
			logger.Warn().Int("exit_code", exitCode).Msg("upgrade tool exited with non-zero status")
		}
		return types.Upgraded(exitCode)
	case <-timer.C:
		a.abandon(logger, cmd)
		return types.TimedOut(fmt.Sprintf("Upgrade timed out after %s", timeout))
	case <-ctx.Done():
		a.abandon(logger, cmd)
		return types.Failed("canceled")
	}
}

func (a UpgradeExecutorAdapter) abandon(logger zerolog.Logger, cmd *exec.Cmd) {
	if !a.KillOnTimeout || cmd.Process == nil {
		logger.Warn().Int("pid", pid(cmd)).Msg("upgrade tool left running")
		return
	}
	if err := cmd.Process.Kill(); err != nil {
		logger.Warn().Err(err).Int("pid", pid(cmd)).Msg("failed to stop upgrade tool")
		return
	}
	logger.Debug().Int("pid", pid(cmd)).Msg("upgrade tool stopped")
}

func pid(cmd *exec.Cmd) int {
	if cmd.Process == nil {
		return 0
	}
	return cmd.Process.Pid
}

var _ ports.UpgradeExecutorPort = UpgradeExecutorAdapter{}
