package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"

	"github.com/roach88/malviz/internal/canon"
	"github.com/roach88/malviz/internal/harness"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Update bool
	Filter string // glob matched against the file name without extension
}

// ScenarioResult is the outcome of one scenario file.
type ScenarioResult struct {
	Name   string   `json:"name"`
	Pass   bool     `json:"pass"`
	Errors []string `json:"errors,omitempty"`
}

// TestResult aggregates a test invocation.
type TestResult struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

func (r *TestResult) add(s ScenarioResult) {
	r.Scenarios = append(r.Scenarios, s)
	r.Total++
	if s.Pass {
		r.Passed++
	} else {
		r.Failed++
	}
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <scenario.yaml|dir>...",
		Short: "Run pipeline scenarios",
		Long: `Run YAML scenarios against an in-memory store and check their
assertions. A scenario with golden/<name>.golden next to it must also
reproduce that snapshot exactly.

Exit codes:
  0 - All scenarios passed
  1 - At least one scenario failed
  2 - Bad arguments or unreadable paths

Examples:
  malviz test ./scenarios
  malviz test ./scenarios --filter "two-*"
  malviz test ./scenarios --update
  malviz test ./scenarios/basic.yaml --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := collectScenarios(args, opts.Filter)
			if err != nil {
				return err
			}
			s := &suite{opts: opts, w: cmd.OutOrStdout()}
			return s.run(files)
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "rewrite golden files from the current output")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "only run scenarios whose name matches this glob")

	return cmd
}

// collectScenarios expands paths into a sorted, de-duplicated list of
// scenario files. Explicit files bypass the filter.
func collectScenarios(paths []string, filter string) ([]string, error) {
	if filter != "" {
		if _, err := filepath.Match(filter, ""); err != nil {
			return nil, WrapExitError(ExitCommandError, "invalid filter pattern", err)
		}
	}

	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return nil, NewExitError(ExitCommandError, "scenario path not found: "+p)
		case err != nil:
			return nil, WrapExitError(ExitCommandError, "cannot read scenario path", err)
		case !info.IsDir():
			files = append(files, p)
			continue
		}

		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() || !isScenarioFile(path) {
				return err
			}
			if filter != "" {
				if ok, _ := filepath.Match(filter, scenarioStem(path)); !ok {
					return nil
				}
			}
			files = append(files, path)
			return nil
		})
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "cannot walk "+p, err)
		}
	}

	slices.Sort(files)
	return slices.Compact(files), nil
}

func isScenarioFile(path string) bool {
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func scenarioStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// goldenPath is where the snapshot for a scenario file lives.
func goldenPath(scenarioFile string) string {
	return filepath.Join(filepath.Dir(scenarioFile), "golden", scenarioStem(scenarioFile)+".golden")
}

// suite runs scenario files and reports them in the selected format.
type suite struct {
	opts   *TestOptions
	w      io.Writer
	result TestResult
}

func (s *suite) text() bool { return s.opts.Format != "json" }

func (s *suite) run(files []string) error {
	s.result.Scenarios = make([]ScenarioResult, 0, len(files))

	if len(files) == 0 {
		if s.text() {
			fmt.Fprintln(s.w, "No scenarios found.")
			return nil
		}
		return s.report()
	}

	for _, f := range files {
		r := s.runOne(f)
		s.result.add(r)
		if s.text() {
			s.printScenario(r)
		}
	}
	return s.report()
}

func (s *suite) runOne(file string) ScenarioResult {
	scenario, err := harness.LoadScenario(file)
	if err != nil {
		return failed(filepath.Base(file), "failed to load scenario: "+err.Error())
	}

	res, err := harness.Run(scenario)
	if err != nil {
		return failed(scenario.Name, "execution failed: "+err.Error())
	}

	got, err := canon.Snapshot(harness.Snapshot{ScenarioName: scenario.Name, Result: res})
	if err != nil {
		return failed(scenario.Name, "snapshot failed: "+err.Error())
	}

	golden := goldenPath(file)
	if s.opts.Update {
		if err := writeGolden(golden, got); err != nil {
			return failed(scenario.Name, "failed to update golden file: "+err.Error())
		}
		return ScenarioResult{Name: scenario.Name, Pass: true}
	}

	errs := slices.Clone(res.Errors)
	if msg := compareGolden(golden, got); msg != "" {
		errs = append(errs, msg)
	}
	if len(errs) > 0 {
		return failed(scenario.Name, errs...)
	}
	return ScenarioResult{Name: scenario.Name, Pass: true}
}

func failed(name string, errs ...string) ScenarioResult {
	return ScenarioResult{Name: name, Errors: errs}
}

// compareGolden returns an empty string when the golden file is absent
// or matches got, and a failure message otherwise.
func compareGolden(path string, got []byte) string {
	want, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return ""
	}
	if err != nil {
		return "failed to read golden file: " + err.Error()
	}
	if bytes.Equal(want, got) {
		return ""
	}
	diff := cmp.Diff(string(want), string(got))
	return "snapshot does not match golden file (run with --update to regenerate)\n" + diff
}

func writeGolden(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create golden directory: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

func (s *suite) printScenario(r ScenarioResult) {
	switch {
	case r.Pass && s.opts.Update:
		fmt.Fprintf(s.w, "✓ %s (golden updated)\n", r.Name)
	case r.Pass:
		fmt.Fprintf(s.w, "✓ %s\n", r.Name)
	default:
		fmt.Fprintf(s.w, "✗ %s\n", r.Name)
		for _, e := range r.Errors {
			fmt.Fprintf(s.w, "  %s\n", strings.ReplaceAll(e, "\n", "\n    "))
		}
	}
}

func (s *suite) report() error {
	r := s.result
	message := fmt.Sprintf("%d scenario(s) failed", r.Failed)

	if !s.text() {
		f := &OutputFormatter{Format: "json", Writer: s.w}
		if r.Failed == 0 {
			return f.Success(r)
		}
		if err := f.Error(ErrCodeTestFailed, message, r); err != nil {
			return err
		}
		return NewExitError(ExitFailure, message)
	}

	fmt.Fprintf(s.w, "\nTest Summary: %d passed, %d failed, %d total\n", r.Passed, r.Failed, r.Total)
	if r.Failed > 0 {
		return NewExitError(ExitFailure, message)
	}
	fmt.Fprintln(s.w, "✓ All scenarios passed")
	return nil
}
