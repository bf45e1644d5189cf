// Package awscli runs the AWS CLI as a subprocess and decodes its JSON output.
package awscli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"go.uber.org/zap"

	"latticemcp/internal/domain"
	"latticemcp/internal/infra/envutil"
	"latticemcp/internal/infra/process"
	"latticemcp/internal/infra/telemetry"
)

const (
	opRun            = "awscli.Run"
	defaultWaitDelay = 2 * time.Second
)

var emptyObject = json.RawMessage(`{}`)

type Options struct {
	// Executable is the CLI binary, resolved through PATH when not absolute.
	Executable string
	// Service is the leading subcommand, e.g. "vpc-lattice".
	Service string
	// Timeout bounds a single run. Zero disables the bound.
	Timeout time.Duration
	// MaxOutputBytes caps each captured stream. Zero disables the cap.
	MaxOutputBytes int
	Logger         *zap.Logger
	Metrics        domain.Metrics
}

type Runner struct {
	executable string
	service    string
	timeout    time.Duration
	maxOutput  int
	logger     *zap.Logger
	metrics    domain.Metrics
}

func NewRunner(opts Options) *Runner {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = domain.NoopMetrics{}
	}
	executable := opts.Executable
	if executable == "" {
		executable = domain.DefaultCLIExecutable
	}
	service := opts.Service
	if service == "" {
		service = domain.DefaultCLIService
	}
	return &Runner{
		executable: executable,
		service:    service,
		timeout:    opts.Timeout,
		maxOutput:  opts.MaxOutputBytes,
		logger:     logger.Named("awscli").With(zap.String(telemetry.FieldLogSource, telemetry.LogSourceCLI)),
		metrics:    metrics,
	}
}

// Args returns the argv passed to the executable for inv, excluding the
// executable itself.
func (r *Runner) Args(inv domain.CLIInvocation) []string {
	argv := make([]string, 0, len(inv.Args)+8)
	argv = append(argv, r.service, inv.Command, "--profile", inv.Profile, "--region", inv.Region)
	argv = append(argv, inv.Args...)
	return append(argv, "--output", "json")
}

// Run executes inv and returns once the process has exited. Exactly one of
// the result or the error is meaningful.
func (r *Runner) Run(ctx context.Context, inv domain.CLIInvocation) (domain.CLIResult, error) {
	started := time.Now()
	res, err := r.run(ctx, inv)
	res.Duration = time.Since(started)

	status := domain.CallStatusSuccess
	if err != nil {
		status = domain.CallStatusError
	}
	r.metrics.ObserveCLI(domain.CLIMetric{
		Command:  inv.Command,
		Status:   status,
		Duration: res.Duration,
	})
	fields := []zap.Field{
		zap.String("command", inv.Command),
		zap.String("profile", inv.Profile),
		zap.String("region", inv.Region),
		zap.Int("exit_code", res.ExitCode),
		telemetry.DurationField(res.Duration),
	}
	if err != nil {
		r.logger.Debug("aws cli run failed", append(fields, zap.Error(err))...)
		return res, err
	}
	r.logger.Debug("aws cli run finished", fields...)
	return res, nil
}

func (r *Runner) run(ctx context.Context, inv domain.CLIInvocation) (domain.CLIResult, error) {
	runCtx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	env := envutil.PatchPATH(os.Environ())
	cmd := exec.CommandContext(runCtx, envutil.ResolveExecutable(r.executable, env), r.Args(inv)...)
	cmd.Env = env
	cleanup := process.Setup(cmd)
	cmd.WaitDelay = defaultWaitDelay
	stdout := newCappedBuffer(r.maxOutput)
	stderr := newCappedBuffer(r.maxOutput)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		cause := fmt.Errorf("%w: %w", domain.ErrLaunchFailed, classifyStartError(err))
		return domain.CLIResult{ExitCode: -1}, domain.E(domain.CodeInternal, opRun,
			fmt.Sprintf("Failed to execute AWS CLI command: %s", err.Error()), cause)
	}

	code, err := process.Wait(runCtx, cmd)
	result := domain.CLIResult{ExitCode: code}
	if err != nil {
		cleanup()
		return result, r.waitError(ctx, err)
	}
	if code != 0 {
		e := domain.E(domain.CodeInternal, opRun,
			fmt.Sprintf("AWS CLI command failed: %s", stderr.String()), domain.ErrExecutionFailed)
		e.Meta = map[string]string{"exitCode": fmt.Sprint(code)}
		return result, e
	}
	if stdout.Truncated() {
		return result, domain.E(domain.CodeInternal, opRun,
			fmt.Sprintf("AWS CLI output exceeded %d bytes", r.maxOutput), domain.ErrOutputTooLarge)
	}

	out, err := decodeOutput(stdout.Bytes())
	if err != nil {
		return result, err
	}
	result.Output = out
	return result, nil
}

func (r *Runner) waitError(parent context.Context, err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded) && parent.Err() == nil:
		return domain.E(domain.CodeInternal, opRun,
			fmt.Sprintf("AWS CLI command timed out after %s", r.timeout),
			fmt.Errorf("%w: %w", domain.ErrExecutionFailed, err))
	case errors.Is(err, context.Canceled):
		return domain.E(domain.CodeCanceled, opRun, "AWS CLI command canceled", err)
	case errors.Is(err, context.DeadlineExceeded):
		return domain.E(domain.CodeDeadlineExceeded, opRun, "AWS CLI command canceled: deadline exceeded", err)
	default:
		return domain.E(domain.CodeInternal, opRun,
			fmt.Sprintf("AWS CLI command failed: %s", err.Error()),
			fmt.Errorf("%w: %w", domain.ErrExecutionFailed, err))
	}
}

func decodeOutput(raw []byte) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return emptyObject, nil
	}
	var probe any
	if err := json.Unmarshal(trimmed, &probe); err != nil {
		return nil, domain.E(domain.CodeInternal, opRun,
			fmt.Sprintf("Failed to parse AWS CLI output: %s", err.Error()),
			fmt.Errorf("%w: %w", domain.ErrMalformedOutput, err))
	}
	return json.RawMessage(trimmed), nil
}

func classifyStartError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", domain.ErrExecutableNotFound, err.Error())
	}
	if errors.Is(err, os.ErrPermission) {
		return fmt.Errorf("%w: %s", domain.ErrPermissionDenied, err.Error())
	}
	return err
}

var _ domain.CLIRunner = (*Runner)(nil)
