package pipeline

import (
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/roach88/malviz/internal/canon"
	"github.com/roach88/malviz/internal/chart"
)

// NewRand returns the generator used for chart randomness under seed.
func NewRand(seed int64) *rand.Rand {
	s := uint64(seed)
	return rand.New(rand.NewPCG(s, s))
}

// Chart builds one chart from the run's tables.
func (r *Result) Chart(kind chart.Kind, rng *rand.Rand) (*chart.Spec, error) {
	cfg := r.Config
	switch kind {
	case chart.KindTrendBand:
		return chart.TrendWithBand(r.Population.Table, chart.TrendOptions{
			Countries:      cfg.Countries,
			ProjectionYear: cfg.ProjectionYear,
			BandMin:        cfg.Band.Min,
			BandMax:        cfg.Band.Max,
		}, rng)
	case chart.KindRankedBar:
		return chart.RankedBar(r.Population.Table, chart.RankOptions{
			Year:    cfg.Ranking.Year,
			MaxYear: cfg.ProjectionYear,
			Top:     cfg.Ranking.Top,
		})
	case chart.KindChoropleth:
		return chart.ChoroplethByTime(r.Malaria.Table, chart.ChoroplethOptions{})
	case chart.KindAnimatedBubble:
		return chart.AnimatedBubble(r.Joined, chart.BubbleOptions{
			From:          cfg.Bubble.From,
			To:            cfg.Bubble.To,
			SizeScale:     cfg.Bubble.SizeScale,
			Padding:       cfg.Bubble.Padding,
			YMax:          cfg.Bubble.YMax,
			FrameDuration: cfg.Bubble.FrameMS,
		})
	case chart.KindStackedArea:
		return chart.StackedArea(r.Malaria.Table, chart.AreaOptions{Countries: cfg.Countries})
	default:
		return nil, fmt.Errorf("unknown chart kind %q", kind)
	}
}

// Built is one chart produced by Charts.
type Built struct {
	Kind chart.Kind
	Spec *chart.Spec
}

// Charts builds every chart kind in order. A single generator seeded with
// seed is shared across charts, so output depends only on seed and data.
func (r *Result) Charts(seed int64) ([]Built, error) {
	rng := NewRand(seed)
	out := make([]Built, 0, len(chart.Kinds()))
	for _, kind := range chart.Kinds() {
		spec, err := r.Chart(kind, rng)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", kind, err)
		}
		out = append(out, Built{Kind: kind, Spec: spec})
	}
	return out, nil
}

// ManifestEntry records one written chart.
type ManifestEntry struct {
	Kind        chart.Kind `json:"kind"`
	File        string     `json:"file"`
	Fingerprint string     `json:"fingerprint"`
}

// Manifest describes a build directory.
type Manifest struct {
	RunID    string          `json:"run_id"`
	Seed     int64           `json:"seed"`
	Config   string          `json:"config"`
	Datasets []string        `json:"datasets"`
	Charts   []ManifestEntry `json:"charts"`
}

// ManifestFile is the manifest's name inside a build directory.
const ManifestFile = "manifest.json"

// WriteCharts writes every chart as canonical JSON into dir, plus a
// manifest of fingerprints. dir is created if needed.
func (r *Result) WriteCharts(dir string, seed int64) (*Manifest, error) {
	built, err := r.Charts(seed)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}

	cfgID, err := canon.Fingerprint(canon.DomainConfig, r.Config)
	if err != nil {
		return nil, err
	}
	m := &Manifest{
		RunID:    r.RunID,
		Seed:     seed,
		Config:   cfgID,
		Datasets: []string{r.Malaria.ID, r.Population.ID},
	}

	for _, b := range built {
		data, err := canon.Snapshot(b.Spec)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", b.Kind, err)
		}
		id, err := canon.Fingerprint(canon.DomainChart, b.Spec)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", b.Kind, err)
		}
		file := string(b.Kind) + ".json"
		if err := os.WriteFile(filepath.Join(dir, file), data, 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", file, err)
		}
		m.Charts = append(m.Charts, ManifestEntry{Kind: b.Kind, File: file, Fingerprint: id})
	}

	data, err := canon.Snapshot(m)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(filepath.Join(dir, ManifestFile), data, 0o644); err != nil {
		return nil, fmt.Errorf("write manifest: %w", err)
	}
	return m, nil
}
