package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/malviz/internal/config"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool               `json:"valid"`
	Title  string             `json:"title,omitempty"`
	Config *config.Dashboard  `json:"config,omitempty"`
	Errors []ValidationDetail `json:"errors,omitempty"`
}

// ValidationDetail is one config problem with its source position.
type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	File    string `json:"file,omitempty"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <config>",
		Short: "Validate a dashboard config",
		Long: `Load a dashboard config (.cue, .yaml, .yml or a directory of .cue
files), apply schema defaults and report the first problem with its
position. The datasets themselves are not read.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	cfg, err := config.Load(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return formatter.Fail(ExitCommandError, ErrCodeNotFound, err)
		}
		var ce *config.CompileError
		if !errors.As(err, &ce) {
			return formatter.Fail(ExitCommandError, ErrCodeConfig, err)
		}
		return outputValidationError(formatter, ce)
	}

	formatter.VerboseLog("Datasets: %s, %s", cfg.Datasets.Malaria.Path, cfg.Datasets.Population.Path)
	if formatter.IsJSON() {
		return formatter.Success(ValidationResult{Valid: true, Title: cfg.Title, Config: cfg})
	}
	fmt.Fprintf(formatter.Writer, "✓ Config valid: %s\n", cfg.Title)
	fmt.Fprintf(formatter.Writer, "  countries: %s\n", strings.Join(cfg.Countries, ", "))
	return nil
}

func outputValidationError(formatter *OutputFormatter, ce *config.CompileError) error {
	detail := ValidationDetail{Field: ce.Field, Message: ce.Message}
	if ce.Pos.IsValid() {
		detail.File = ce.Pos.Filename()
		detail.Line = ce.Pos.Line()
		detail.Column = ce.Pos.Column()
	}

	if formatter.IsJSON() {
		_ = formatter.Error(ErrCodeConfig, ce.Error(), ValidationResult{
			Valid:  false,
			Errors: []ValidationDetail{detail},
		})
	} else {
		fmt.Fprintln(formatter.Writer, "✗ Validation failed")
		if detail.Line > 0 {
			fmt.Fprintf(formatter.Writer, "line %d\n", detail.Line)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s: %s\n", ErrCodeConfig, detail.Field, detail.Message)
	}
	return NewExitError(ExitFailure, "validation failed")
}
