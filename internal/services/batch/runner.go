package batch

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"sync"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/trendboard/internal/common"
	"github.com/ternarybob/trendboard/internal/interfaces"
)

// Environment variables passed through from the parent process. Everything
// else the workflow needs is set explicitly from config.
var envPassthrough = []string{"PATH", "HOME", "TMPDIR", "LANG"}

// ProcessRunner launches the external trend-extraction workflow as an isolated
// child process, streams its output to the log as it arrives and captures it
// (bounded) for job log storage.
type ProcessRunner struct {
	config *common.WorkflowConfig
	logger arbor.ILogger
}

// NewProcessRunner creates a workflow runner for the configured command
func NewProcessRunner(config *common.WorkflowConfig, logger arbor.ILogger) interfaces.WorkflowRunner {
	return &ProcessRunner{
		config: config,
		logger: logger,
	}
}

// Run launches the workflow with positional arguments (country, category,
// weeks) and waits for it to exit. Exit code 0 is success regardless of stderr
// content; a non-zero code is a failure. The runner itself never retries.
func (r *ProcessRunner) Run(ctx context.Context, country, category string, weeks int) (*interfaces.WorkflowResult, error) {
	if r.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.config.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, r.config.Command, r.config.Script, country, category, strconv.Itoa(weeks))
	cmd.Dir = r.config.WorkDir
	cmd.Env = r.buildEnv()

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open workflow stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open workflow stderr pipe: %w", err)
	}

	r.logger.Info().
		Str("command", r.config.Command).
		Str("script", r.config.Script).
		Str("country", country).
		Str("category", category).
		Int("weeks", weeks).
		Msg("Launching trend-extraction workflow")

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start workflow process: %w", err)
	}

	// Stream both pipes concurrently; the live stream is unbounded while the
	// stored capture is capped at MaxOutputSize.
	var wg sync.WaitGroup
	var outBuf, errBuf cappedBuffer
	outBuf.max = r.config.MaxOutputSize
	errBuf.max = r.config.MaxOutputSize

	wg.Add(2)
	go func() {
		defer wg.Done()
		r.streamLines(stdout, &outBuf, false)
	}()
	go func() {
		defer wg.Done()
		r.streamLines(stderr, &errBuf, true)
	}()
	wg.Wait()

	exitCode := 0
	if err := cmd.Wait(); err != nil {
		exitErr, ok := err.(*exec.ExitError)
		if !ok {
			return nil, fmt.Errorf("workflow process failed: %w", err)
		}
		exitCode = exitErr.ExitCode()
	}

	result := &interfaces.WorkflowResult{
		ExitCode: exitCode,
		Stdout:   outBuf.String(),
		Stderr:   errBuf.String(),
	}

	r.logger.Info().
		Int("exit_code", exitCode).
		Msg("Trend-extraction workflow finished")

	return result, nil
}

// buildEnv assembles the child's fully-specified environment: an allow-listed
// passthrough plus explicit credentials and store parameters from config.
func (r *ProcessRunner) buildEnv() []string {
	env := make([]string, 0, len(envPassthrough)+3)
	for _, key := range envPassthrough {
		if value := os.Getenv(key); value != "" {
			env = append(env, key+"="+value)
		}
	}
	if r.config.APIKey != "" {
		env = append(env, "GEMINI_API_KEY="+r.config.APIKey)
	}
	if r.config.StoreURI != "" {
		env = append(env, "TRENDBOARD_STORE_URI="+r.config.StoreURI)
	}
	if r.config.StoreDatabase != "" {
		env = append(env, "TRENDBOARD_STORE_DATABASE="+r.config.StoreDatabase)
	}
	return env
}

// streamLines forwards each output line to the logger as it arrives and
// accumulates it into the capped capture buffer.
func (r *ProcessRunner) streamLines(pipe io.Reader, buf *cappedBuffer, isStderr bool) {
	scanner := bufio.NewScanner(pipe)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if isStderr {
			r.logger.Warn().Str("stream", "stderr").Msg(line)
		} else {
			r.logger.Info().Str("stream", "stdout").Msg(line)
		}
		buf.WriteLine(line)
	}
	if err := scanner.Err(); err != nil {
		r.logger.Warn().Err(err).Msg("Workflow output stream read failed")
	}
}

// cappedBuffer accumulates workflow output up to a fixed byte cap.
// Writes past the cap are dropped so a chatty workflow cannot grow the
// stored capture without bound.
type cappedBuffer struct {
	mu   sync.Mutex
	data []byte
	max  int
}

func (b *cappedBuffer) WriteLine(line string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	remaining := b.max - len(b.data)
	if remaining <= 0 {
		return
	}

	chunk := line + "\n"
	if len(chunk) > remaining {
		chunk = chunk[:remaining]
	}
	b.data = append(b.data, chunk...)
}

func (b *cappedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return string(b.data)
}
