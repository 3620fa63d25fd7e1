// Package config loads dashboard definitions from CUE or YAML and
// validates them against an embedded CUE schema that also supplies
// defaults.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaCUE string

// Dataset locates one wide input table.
type Dataset struct {
	Path      string `json:"path"`
	IDColumn  string `json:"id_column"`
	Metric    string `json:"metric"`
	Sheet     string `json:"sheet"`
	Magnitude bool   `json:"magnitude"`
}

// Datasets holds the two inputs. Malaria is the left side of the join.
type Datasets struct {
	Malaria    Dataset `json:"malaria"`
	Population Dataset `json:"population"`
}

// Band bounds the trend uncertainty offsets.
type Band struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Ranking selects the ranked-bar year and length.
type Ranking struct {
	Year int `json:"year"`
	Top  int `json:"top"`
}

// Bubble configures the animated bubble chart.
type Bubble struct {
	From      int     `json:"from"`
	To        int     `json:"to"`
	SizeScale float64 `json:"size_scale"`
	Padding   float64 `json:"padding"`
	YMax      float64 `json:"y_max"`
	FrameMS   int     `json:"frame_ms"`
}

// Dashboard is a validated dashboard definition with defaults applied.
type Dashboard struct {
	Title          string   `json:"title"`
	Datasets       Datasets `json:"datasets"`
	Countries      []string `json:"countries"`
	ProjectionYear int      `json:"projection_year"`
	Seed           int64    `json:"seed"`
	Band           Band     `json:"band"`
	Ranking        Ranking  `json:"ranking"`
	SummaryYear    int      `json:"summary_year"`
	Bubble         Bubble   `json:"bubble"`
}

// CompileError is a configuration problem, with a CUE position when one
// is known.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Load reads a dashboard from a .cue, .yaml or .yml file, or from a
// directory of .cue files forming one package. Relative dataset paths are
// resolved against the file's directory.
func Load(path string) (*Dashboard, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	var (
		d   *Dashboard
		dir = filepath.Dir(path)
	)
	switch ext := strings.ToLower(filepath.Ext(path)); {
	case info.IsDir():
		d, err = loadDir(path)
		dir = path
	case ext == ".cue":
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil, fmt.Errorf("config: %w", readErr)
		}
		d, err = ParseCUE(data, path)
	case ext == ".yaml" || ext == ".yml":
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil, fmt.Errorf("config: %w", readErr)
		}
		d, err = ParseYAML(data)
	default:
		return nil, fmt.Errorf("config: unsupported file type %q", ext)
	}
	if err != nil {
		return nil, err
	}

	d.ResolvePaths(dir)
	return d, nil
}

// ParseCUE validates CUE source against the schema. filename is used in
// error positions only.
func ParseCUE(data []byte, filename string) (*Dashboard, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	return decode(ctx, v)
}

// ParseYAML validates a YAML document against the schema.
func ParseYAML(data []byte) (*Dashboard, error) {
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, &CompileError{Field: "yaml", Message: err.Error()}
	}
	return FromMap(m)
}

// FromMap validates a generic document, as decoded from YAML or JSON,
// against the schema.
func FromMap(m map[string]any) (*Dashboard, error) {
	if m == nil {
		m = map[string]any{}
	}
	ctx := cuecontext.New()
	v := ctx.Encode(m)
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	return decode(ctx, v)
}

func loadDir(dir string) (*Dashboard, error) {
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, &CompileError{Field: "load", Message: "no CUE instances loaded from " + dir}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, formatCUEError(inst.Err)
	}

	ctx := cuecontext.New()
	v := ctx.BuildInstance(inst)
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	return decode(ctx, v)
}

// decode unifies v with #Dashboard, requires a concrete result and runs
// the checks CUE constraints cannot express.
func decode(ctx *cue.Context, v cue.Value) (*Dashboard, error) {
	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("config: bad embedded schema: %w", err)
	}

	unified := schema.LookupPath(cue.ParsePath("#Dashboard")).Unify(v)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	var d Dashboard
	if err := unified.Decode(&d); err != nil {
		return nil, formatCUEError(err)
	}
	if err := d.check(unified); err != nil {
		return nil, err
	}
	return &d, nil
}

func (d *Dashboard) check(v cue.Value) error {
	if d.Band.Min > d.Band.Max {
		return &CompileError{
			Field:   "band",
			Message: fmt.Sprintf("min %g exceeds max %g", d.Band.Min, d.Band.Max),
			Pos:     v.LookupPath(cue.ParsePath("band.min")).Pos(),
		}
	}
	if d.Bubble.From > d.Bubble.To {
		return &CompileError{
			Field:   "bubble",
			Message: fmt.Sprintf("from %d is after to %d", d.Bubble.From, d.Bubble.To),
			Pos:     v.LookupPath(cue.ParsePath("bubble.from")).Pos(),
		}
	}
	if len(d.Countries) == 0 {
		return &CompileError{
			Field:   "countries",
			Message: "at least one country is required",
			Pos:     v.LookupPath(cue.ParsePath("countries")).Pos(),
		}
	}
	return nil
}

// ResolvePaths makes relative dataset paths relative to dir.
func (d *Dashboard) ResolvePaths(dir string) {
	for _, ds := range []*Dataset{&d.Datasets.Malaria, &d.Datasets.Population} {
		if !filepath.IsAbs(ds.Path) {
			ds.Path = filepath.Join(dir, ds.Path)
		}
	}
}

// formatCUEError keeps the first CUE error and its position.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &CompileError{Field: "cue", Message: err.Error()}
	}

	first := errs[0]
	ce := &CompileError{Field: "cue", Message: first.Error()}
	if path := first.Path(); len(path) > 0 {
		ce.Field = strings.Join(path, ".")
	}
	if positions := cueerrors.Positions(first); len(positions) > 0 {
		ce.Pos = positions[0]
	}
	return ce
}
