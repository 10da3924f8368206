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
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/onsi/ginkgo/v2/types"
	"github.com/xuri/excelize/v2"
)

const (
	resultsSheet = "Results"
	latencySheet = "Latency"

	defaultColumnWidth = 18
	specColumnWidth    = 80

	errorBgColor   = "FF5900"
	warningBgColor = "FFEB9C"

	// Specs slower than this are highlighted.
	slowSpecThreshold = 2 * time.Second
)

var resultHeaders = []string{
	"Spec", "State", "Attempts", "Duration (ms)", "Failure", "Location",
}

var latencyHeaders = []string{
	"Method", "Count", "Errors", "P50 (ms)", "P95 (ms)", "P99 (ms)", "Max (ms)",
}

// WriteReports writes any file report the configuration asks for that Ginkgo
// does not produce itself.
func WriteReports(config *TestConfig, report types.Report, metrics *Metrics) (string, error) {
	if config.ReportFormat != ReportFormatXLSX {
		return "", nil
	}

	if err := os.MkdirAll(config.ReportDir, 0o755); err != nil {
		return "", fmt.Errorf("creating report directory: %w", err)
	}

	path := filepath.Join(config.ReportDir, "report.xlsx")

	if err := WriteXLSXReport(path, report, metrics); err != nil {
		return "", err
	}

	return path, nil
}

// WriteXLSXReport renders spec results, a summary and optional latency
// figures into a workbook.
func WriteXLSXReport(path string, report types.Report, metrics *Metrics) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", resultsSheet); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}

	if err := writeResults(f, report); err != nil {
		return err
	}

	if metrics != nil {
		if err := writeLatency(f, metrics); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving report: %w", err)
	}

	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any, style int) error {
	for i, value := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}

		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return err
		}

		if style != 0 {
			if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
				return err
			}
		}
	}

	return nil
}

func fillStyle(f *excelize.File, color string) (int, error) {
	return f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{
			Type:    "pattern",
			Pattern: 1,
			Color:   []string{color},
		},
	})
}

func headerRow(headers []string) []any {
	row := make([]any, len(headers))
	for i, h := range headers {
		row[i] = h
	}

	return row
}

//nolint:cyclop
func writeResults(f *excelize.File, report types.Report) error {
	errorStyle, err := fillStyle(f, errorBgColor)
	if err != nil {
		return err
	}

	warningStyle, err := fillStyle(f, warningBgColor)
	if err != nil {
		return err
	}

	if err := f.SetColWidth(resultsSheet, "A", "A", specColumnWidth); err != nil {
		return err
	}

	if err := f.SetColWidth(resultsSheet, "B", "F", defaultColumnWidth); err != nil {
		return err
	}

	if err := writeRow(f, resultsSheet, 1, headerRow(resultHeaders), 0); err != nil {
		return err
	}

	row := 2
	failed := 0

	for _, spec := range report.SpecReports {
		if spec.LeafNodeType != types.NodeTypeIt {
			continue
		}

		style := 0

		switch {
		case spec.State.Is(types.SpecStateFailureStates):
			style = errorStyle
			failed++
		case spec.RunTime > slowSpecThreshold:
			style = warningStyle
		}

		values := []any{
			spec.FullText(),
			spec.State.String(),
			spec.NumAttempts,
			spec.RunTime.Milliseconds(),
			spec.Failure.Message,
			spec.LeafNodeLocation.String(),
		}

		if err := writeRow(f, resultsSheet, row, values, style); err != nil {
			return err
		}

		row++
	}

	summary := [][]any{
		{"Summary"},
		{"Suite", report.SuiteDescription},
		{"Succeeded", report.SuiteSucceeded},
		{"Total duration (ms)", report.RunTime.Milliseconds()},
		{"Specs", row - 2},
		{"Failed specs", failed},
	}

	for i, values := range summary {
		if err := writeRow(f, resultsSheet, row+1+i, values, 0); err != nil {
			return err
		}
	}

	return nil
}

func writeLatency(f *excelize.File, metrics *Metrics) error {
	if _, err := f.NewSheet(latencySheet); err != nil {
		return fmt.Errorf("creating latency sheet: %w", err)
	}

	if err := writeRow(f, latencySheet, 1, headerRow(latencyHeaders), 0); err != nil {
		return err
	}

	for i, s := range metrics.Summaries() {
		values := []any{
			s.Method,
			s.Count,
			s.Errors,
			s.P50.Milliseconds(),
			s.P95.Milliseconds(),
			s.P99.Milliseconds(),
			s.Max.Milliseconds(),
		}

		if err := writeRow(f, latencySheet, i+2, values, 0); err != nil {
			return err
		}
	}

	return nil
}
