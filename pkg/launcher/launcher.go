/*
Copyright 2026 Nscale.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package launcher runs the end-to-end suites with the worker count and
// report options taken from the run configuration.
package launcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"github.com/fatih/color"

	"github.com/nscaledev/placeholder-api-tests/test/api"
)

// DefaultPackages are run when none are given.
//
//nolint:gochecknoglobals
var DefaultPackages = []string{"./test/api/suites/..."}

// Invocation is a fully resolved command line.
type Invocation struct {
	Path string
	Args []string
	Env  []string
}

func (i *Invocation) String() string {
	return fmt.Sprintf("%s %v", i.Path, i.Args)
}

// Result summarises a finished run.
type Result struct {
	ExitCode int
	Duration time.Duration
}

type Runner struct {
	Config *api.TestConfig

	// Ginkgo is the ginkgo binary name or path.
	Ginkgo string

	Stdout io.Writer
	Stderr io.Writer

	// LookPath resolves binaries, exec.LookPath when nil.
	LookPath func(file string) (string, error)
}

func (r *Runner) lookPath(file string) (string, error) {
	if r.LookPath != nil {
		return r.LookPath(file)
	}

	return exec.LookPath(file)
}

// Plan resolves the command that runs packages.  The ginkgo CLI is preferred
// as it alone can spread specs over processes, go test is the fallback.
func (r *Runner) Plan(packages []string) (*Invocation, error) {
	if len(packages) == 0 {
		packages = DefaultPackages
	}

	reportDir, err := filepath.Abs(r.Config.ReportDir)
	if err != nil {
		return nil, fmt.Errorf("%w: REPORT_DIR: %w", api.ErrConfiguration, err)
	}

	// Suites run with the package as working directory.
	env := append(os.Environ(), "REPORT_DIR="+reportDir)

	ginkgo := r.Ginkgo
	if ginkgo == "" {
		ginkgo = "ginkgo"
	}

	if path, err := r.lookPath(ginkgo); err == nil {
		args := []string{"run", "--procs=" + strconv.Itoa(r.Config.Workers)}

		if r.Config.CI {
			args = append(args, "--fail-on-pending")
		}

		args = append(args, packages...)

		return &Invocation{Path: path, Args: args, Env: env}, nil
	}

	path, err := r.lookPath("go")
	if err != nil {
		return nil, fmt.Errorf("neither %s nor go found on PATH: %w", ginkgo, err)
	}

	args := append([]string{"test", "-count=1"}, packages...)

	return &Invocation{Path: path, Args: args, Env: env}, nil
}

// Run executes the plan and reports the exit status, a non-zero status from
// the suites is a result and not an error.
func (r *Runner) Run(ctx context.Context, packages []string) (*Result, error) {
	invocation, err := r.Plan(packages)
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, invocation.Path, invocation.Args...)
	cmd.Env = invocation.Env
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr

	start := time.Now()

	err = cmd.Run()

	result := &Result{
		Duration: time.Since(start),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, fmt.Errorf("running %s: %w", invocation, err)
		}

		result.ExitCode = exitErr.ExitCode()
	}

	return result, nil
}

// PrintSummary writes a coloured one line verdict.
func PrintSummary(w io.Writer, config *api.TestConfig, result *Result) {
	target := config.BaseURL
	if config.UseFake() {
		target = "in-process fake"
	}

	verdict := color.New(color.FgGreen, color.Bold).Sprint("PASS")
	if result.ExitCode != 0 {
		verdict = color.New(color.FgRed, color.Bold).Sprintf("FAIL (exit %d)", result.ExitCode)
	}

	fmt.Fprintf(w, "%s %s in %s, %d workers, %s reports\n",
		verdict,
		color.CyanString(target),
		result.Duration.Round(time.Millisecond),
		config.Workers,
		config.ReportFormat,
	)
}

// PrintConfig writes the resolved configuration, secrets are masked.
func PrintConfig(w io.Writer, config *api.TestConfig) {
	mask := func(s string) string {
		if s == "" {
			return ""
		}

		return "********"
	}

	key := color.New(color.FgHiBlack).SprintFunc()

	rows := [][2]string{
		{"API_BASE_URL", config.BaseURL},
		{"API_TIMEOUT", config.TestTimeout.String()},
		{"REQUEST_TIMEOUT", config.RequestTimeout.String()},
		{"API_RETRIES", strconv.Itoa(config.Retries)},
		{"PARALLEL_WORKERS", strconv.Itoa(config.Workers)},
		{"REPORT_FORMAT", config.ReportFormat},
		{"REPORT_DIR", config.ReportDir},
		{"TRACE_ON_FAILURE", strconv.FormatBool(config.TraceOnFailure)},
		{"API_KEY", mask(config.APIKey)},
		{"AUTH_TOKEN", mask(config.AuthToken)},
		{"FIXTURES_DIR", config.FixturesDir},
		{"RATE_LIMIT", strconv.FormatFloat(config.RateLimit, 'f', -1, 64)},
		{"HISTORY_DB", config.HistoryDB},
		{"CI", strconv.FormatBool(config.CI)},
	}

	for _, row := range rows {
		fmt.Fprintf(w, "%s=%s\n", key(row[0]), row[1])
	}
}
