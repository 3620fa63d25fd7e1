// Package harness runs malviz scenarios: small YAML files that carry their
// own input tables, a handful of config overrides, and assertions about
// what the pipeline produced.
//
// # Scenario Format
//
//	name: scenario_name
//	description: "What this scenario checks"
//	run_id: run-fixed            # optional, default "run-test"
//	datasets:
//	  malaria:
//	    csv: |
//	      country,2000,2001
//	      A,10,20
//	  population:
//	    path: population.csv      # relative to the scenario file
//	config:                       # merged over the generated dashboard
//	  countries: [A]
//	assertions:
//	  - type: row_count
//	    table: malaria
//	    year: 2000
//	    count: 1
//	  - type: metric
//	    metric: total_under_five
//	    value: 300
//	  - type: argmax
//	    metric: highest_ratio
//	    country: A
//	    year: 2000
//	  - type: chart_frames
//	    chart: choropleth
//	    count: 2
//
// # Assertion Types
//
//   - row_count: number of stored rows of malaria or population, or of
//     joined rows, optionally narrowed by year and countries
//   - metric: a numeric summary value within a tolerance
//   - argmax: the country (and optionally year) a summary box selected
//   - chart_frames: number of animation frames in a chart
//
// Each scenario runs against a fresh in-memory store with a fixed run id
// and a discarded log, so results and snapshots are reproducible.
package harness
