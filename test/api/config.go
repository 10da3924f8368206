/*
Copyright 2024-2025 the Unikorn Authors.
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

package api

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/onsi/ginkgo/v2/types"
)

const (
	// DefaultBaseURL is the public sandbox the suites target by default.
	DefaultBaseURL = "https://jsonplaceholder.typicode.com"

	// FakeBaseURL selects the in-process fake API instead of a remote target.
	FakeBaseURL = "fake"
)

// Report formats understood by ApplyRunnerConfig and WriteReports.
const (
	ReportFormatLine    = "line"
	ReportFormatVerbose = "verbose"
	ReportFormatJSON    = "json"
	ReportFormatJUnit   = "junit"
	ReportFormatXLSX    = "xlsx"
)

type TestConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
	TestTimeout    time.Duration
	Retries        int
	Workers        int
	ReportFormat   string
	ReportDir      string
	TraceOnFailure bool
	APIKey         string
	AuthToken      string
	FixturesDir    string
	RateLimit      float64
	HistoryDB      string
	CI             bool
	DebugLogging   bool
	LogRequests    bool
	LogResponses   bool
}

// LoadTestConfig loads configuration from environment variables and .env files.
// Every value has a default, so an error means a value was present but malformed.
func LoadTestConfig() (*TestConfig, error) {
	loadEnvFile()

	var errs []error

	ci := getBool("CI", false, &errs)

	defaultRetries, defaultWorkers := 0, runtime.NumCPU()
	if ci {
		defaultRetries, defaultWorkers = 2, 4
	}

	config := &TestConfig{
		BaseURL:        getStringWithDefault("API_BASE_URL", DefaultBaseURL),
		RequestTimeout: getDuration("REQUEST_TIMEOUT", 30*time.Second, &errs),
		TestTimeout:    getMilliseconds("API_TIMEOUT", 30*time.Second, &errs),
		Retries:        getInt("API_RETRIES", defaultRetries, &errs),
		Workers:        getInt("PARALLEL_WORKERS", defaultWorkers, &errs),
		ReportFormat:   strings.ToLower(getStringWithDefault("REPORT_FORMAT", ReportFormatLine)),
		ReportDir:      getStringWithDefault("REPORT_DIR", "reports"),
		TraceOnFailure: getBool("TRACE_ON_FAILURE", false, &errs),
		APIKey:         os.Getenv("API_KEY"),
		AuthToken:      os.Getenv("AUTH_TOKEN"),
		FixturesDir:    getStringWithDefault("FIXTURES_DIR", defaultFixturesDir()),
		RateLimit:      getFloat("RATE_LIMIT", 0, &errs),
		HistoryDB:      os.Getenv("HISTORY_DB"),
		CI:             ci,
		DebugLogging:   getBool("DEBUG_LOGGING", false, &errs),
		LogRequests:    getBool("LOG_REQUESTS", false, &errs),
		LogResponses:   getBool("LOG_RESPONSES", false, &errs),
	}

	if err := validateConfig(config); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return config, nil
}

// UseFake returns whether the suites should start the in-process fake API.
func (c *TestConfig) UseFake() bool {
	return strings.EqualFold(c.BaseURL, FakeBaseURL)
}

// DefaultHeaders returns the headers applied to every request.
func (c *TestConfig) DefaultHeaders() map[string]string {
	headers := map[string]string{}

	if c.APIKey != "" {
		headers["X-API-Key"] = c.APIKey
	}

	if c.AuthToken != "" {
		headers["Authorization"] = "Bearer " + c.AuthToken
	}

	return headers
}

// ApplyRunnerConfig maps the run configuration onto Ginkgo's suite and reporter
// configuration.  Worker count is a CLI concern and is handled by the launcher.
func (c *TestConfig) ApplyRunnerConfig(suiteConfig *types.SuiteConfig, reporterConfig *types.ReporterConfig) {
	if c.Retries > 0 {
		suiteConfig.FlakeAttempts = c.Retries + 1
	}

	if c.CI {
		suiteConfig.FailOnPending = true
	}

	switch c.ReportFormat {
	case ReportFormatLine:
		reporterConfig.Succinct = true
	case ReportFormatVerbose:
		reporterConfig.Verbose = true
	case ReportFormatJSON:
		reporterConfig.JSONReport = filepath.Join(c.ReportDir, "report.json")
	case ReportFormatJUnit:
		reporterConfig.JUnitReport = filepath.Join(c.ReportDir, "junit.xml")
	}
}

// getStringWithDefault gets a string from environment variable or returns default.
func getStringWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

// getDuration gets a Go duration from environment variable or returns default.
func getDuration(key string, defaultValue time.Duration, errs *[]error) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%w: %s=%q is not a duration", ErrConfiguration, key, value))
		return defaultValue
	}

	return duration
}

// getMilliseconds accepts either a bare millisecond count or a Go duration.
func getMilliseconds(key string, defaultValue time.Duration, errs *[]error) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if ms, err := strconv.ParseInt(value, 10, 64); err == nil {
		if ms <= 0 {
			*errs = append(*errs, fmt.Errorf("%w: %s must be positive", ErrConfiguration, key))
			return defaultValue
		}

		return time.Duration(ms) * time.Millisecond
	}

	return getDuration(key, defaultValue, errs)
}

func getInt(key string, defaultValue int, errs *[]error) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	i, err := strconv.Atoi(value)
	if err != nil || i < 0 {
		*errs = append(*errs, fmt.Errorf("%w: %s=%q is not a non-negative integer", ErrConfiguration, key, value))
		return defaultValue
	}

	return i
}

func getFloat(key string, defaultValue float64, errs *[]error) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	f, err := strconv.ParseFloat(value, 64)
	if err != nil || f < 0 {
		*errs = append(*errs, fmt.Errorf("%w: %s=%q is not a non-negative number", ErrConfiguration, key, value))
		return defaultValue
	}

	return f
}

// getBool gets a boolean from environment variable or returns default.
func getBool(key string, defaultValue bool, errs *[]error) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%w: %s=%q is not a boolean", ErrConfiguration, key, value))
		return defaultValue
	}

	return boolValue
}

// moduleRoot walks up from the working directory to the directory holding go.mod.
// Suites run from their package directory, so relative paths need anchoring.
func moduleRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "."
		}

		dir = parent
	}
}

func defaultFixturesDir() string {
	return filepath.Join(moduleRoot(), "test", "data")
}

func loadEnvFile() {
	envPath := filepath.Join(moduleRoot(), "test", ".env")

	if _, err := os.Stat(envPath); err != nil {
		// .env file not found - this is OK in CI/CD where env vars are set directly
		return
	}

	// Load never overrides variables that are already set.
	if err := godotenv.Load(envPath); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load .env file from %s: %v\n", envPath, err)
	}
}

// validateConfig checks values that have no sensible fallback.
func validateConfig(config *TestConfig) error {
	switch config.ReportFormat {
	case ReportFormatLine, ReportFormatVerbose, ReportFormatJSON, ReportFormatJUnit, ReportFormatXLSX:
	default:
		return fmt.Errorf("%w: REPORT_FORMAT %q must be one of line, verbose, json, junit, xlsx", ErrConfiguration, config.ReportFormat)
	}

	if config.UseFake() {
		return nil
	}

	u, err := url.Parse(config.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: API_BASE_URL %q must be an absolute URL or %q", ErrConfiguration, config.BaseURL, FakeBaseURL)
	}

	return nil
}
