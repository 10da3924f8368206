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

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nscaledev/placeholder-api-tests/pkg/constants"
	"github.com/nscaledev/placeholder-api-tests/pkg/launcher"
	"github.com/nscaledev/placeholder-api-tests/test/api"

	cr "sigs.k8s.io/controller-runtime"
)

// exitError carries the suites' exit status out of cobra.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("suites failed with exit status %d", e.code)
}

func newRunCommand() *cobra.Command {
	var (
		ginkgo string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "run [packages]",
		Short: "Run the end-to-end suites",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := api.LoadTestConfig()
			if err != nil {
				return err
			}

			runner := &launcher.Runner{
				Config: config,
				Ginkgo: ginkgo,
				Stdout: cmd.OutOrStdout(),
				Stderr: cmd.ErrOrStderr(),
			}

			if dryRun {
				invocation, err := runner.Plan(args)
				if err != nil {
					return err
				}

				fmt.Fprintln(cmd.OutOrStdout(), invocation)

				return nil
			}

			result, err := runner.Run(cmd.Context(), args)
			if err != nil {
				return err
			}

			launcher.PrintSummary(cmd.OutOrStdout(), config, result)

			if result.ExitCode != 0 {
				return &exitError{code: result.ExitCode}
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&ginkgo, "ginkgo", "ginkgo", "Ginkgo CLI binary, go test is used if it cannot be found.")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the resolved command without running it.")

	return cmd
}

func newConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the resolved run configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			config, err := api.LoadTestConfig()
			if err != nil {
				return err
			}

			launcher.PrintConfig(cmd.OutOrStdout(), config)

			return nil
		},
	}
}

func main() {
	root := &cobra.Command{
		Use:           constants.Application,
		Short:         "End-to-end suites for the JSONPlaceholder posts API",
		Version:       constants.VersionString(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newRunCommand(), newConfigCommand())

	if err := root.ExecuteContext(cr.SetupSignalHandler()); err != nil {
		if exitErr, ok := err.(*exitError); ok { //nolint:errorlint
			os.Exit(exitErr.code)
		}

		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
