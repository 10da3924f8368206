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

package api

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	// SQLite driver
	_ "github.com/mattn/go-sqlite3"
	"github.com/onsi/ginkgo/v2/types"
	"github.com/spjmurray/go-util/pkg/set"
)

const stateSpecPassed = "passed"

const historySchema = `
CREATE TABLE IF NOT EXISTS runs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	suite TEXT NOT NULL,
	started_at TEXT NOT NULL,
	passed INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS results (
	run_id INTEGER NOT NULL REFERENCES runs(id),
	spec TEXT NOT NULL,
	state TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS results_run_id ON results(run_id);
`

// SpecOutcome is the final state of one spec in a run.
type SpecOutcome struct {
	Spec  string
	State string
}

// OutcomesFromReport extracts one outcome per It node.
func OutcomesFromReport(report types.Report) []SpecOutcome {
	var outcomes []SpecOutcome

	for _, spec := range report.SpecReports {
		if spec.LeafNodeType != types.NodeTypeIt {
			continue
		}

		outcomes = append(outcomes, SpecOutcome{
			Spec:  spec.FullText(),
			State: spec.State.String(),
		})
	}

	return outcomes
}

// Regressions returns specs that passed in the previous run but now did not,
// including specs that are now pending or skipped.
func Regressions(previous map[string]string, current []SpecOutcome) []string {
	var previouslyPassed, nowNotPassing []string

	for spec, state := range previous {
		if state == stateSpecPassed {
			previouslyPassed = append(previouslyPassed, spec)
		}
	}

	for _, outcome := range current {
		if outcome.State != stateSpecPassed {
			nowNotPassing = append(nowNotPassing, outcome.Spec)
		}
	}

	regressed := slices.Collect(set.New[string](previouslyPassed...).Intersection(set.New[string](nowNotPassing...)).All())
	slices.Sort(regressed)

	return regressed
}

// History is the ledger of previous runs, used to detect regressions.
type History struct {
	db *sql.DB
}

// OpenHistory opens or creates the ledger at path.
func OpenHistory(ctx context.Context, path string) (*History, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	if _, err := db.ExecContext(ctx, historySchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialise history database: %w", err)
	}

	return &History{
		db: db,
	}, nil
}

// Close closes the database connection.
func (h *History) Close() error {
	return h.db.Close()
}

// Previous returns spec states of the most recent run of the suite, empty
// when the suite has never run.
func (h *History) Previous(ctx context.Context, suite string) (map[string]string, error) {
	var runID int64

	err := h.db.QueryRowContext(ctx, `SELECT id FROM runs WHERE suite = ? ORDER BY id DESC LIMIT 1`, suite).Scan(&runID)
	if errors.Is(err, sql.ErrNoRows) {
		return map[string]string{}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}

	rows, err := h.db.QueryContext(ctx, `SELECT spec, state FROM results WHERE run_id = ?`, runID)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	states := map[string]string{}

	for rows.Next() {
		var spec, state string
		if err := rows.Scan(&spec, &state); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		states[spec] = state
	}

	return states, rows.Err()
}

// Record stores a run and its outcomes atomically.
func (h *History) Record(ctx context.Context, suite string, startedAt time.Time, passed bool, outcomes []SpecOutcome) error {
	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	//nolint:errcheck // rollback after commit is a no-op
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `INSERT INTO runs (suite, started_at, passed) VALUES (?, ?, ?)`, suite, startedAt.UTC().Format(time.RFC3339), passed)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}

	runID, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read run id: %w", err)
	}

	for _, outcome := range outcomes {
		if _, err := tx.ExecContext(ctx, `INSERT INTO results (run_id, spec, state) VALUES (?, ?, ?)`, runID, outcome.Spec, outcome.State); err != nil {
			return fmt.Errorf("failed to record result: %w", err)
		}
	}

	return tx.Commit()
}

// RecordReport compares a finished suite with its previous run, stores it and
// returns the regressions.
func (h *History) RecordReport(ctx context.Context, report types.Report) ([]string, error) {
	previous, err := h.Previous(ctx, report.SuiteDescription)
	if err != nil {
		return nil, err
	}

	outcomes := OutcomesFromReport(report)

	if err := h.Record(ctx, report.SuiteDescription, report.StartTime, report.SuiteSucceeded, outcomes); err != nil {
		return nil, err
	}

	return Regressions(previous, outcomes), nil
}

// Gate records the report and fails if any spec regressed since the previous
// run of the suite.
func (h *History) Gate(ctx context.Context, report types.Report) error {
	regressions, err := h.RecordReport(ctx, report)
	if err != nil {
		return err
	}

	if len(regressions) > 0 {
		return fmt.Errorf("%w: %d specs no longer pass: %s", ErrRegression, len(regressions), strings.Join(regressions, "; "))
	}

	return nil
}
