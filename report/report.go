// Package report turns a selection into exchange records, per-participant
// summaries and the run metrics artifact.
//
// A run's figures are collected into an explicit Metrics record (there is
// no hidden global); the metrics file on disk is an object keyed by input
// file path, merged on write so repeated runs over different inputs
// accumulate side by side.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"runtime"
	"sort"

	"github.com/katalvlaran/mathtrade/core"
)

// ErrNilInstance indicates a nil instance was passed.
var ErrNilInstance = errors.New("report: nil instance")

// Reconstruct derives the exchange records realised by sel. A cycle of
// length k yields k records: owner of c[i] gives c[i] and receives c[i+1]
// (wrapping) from its owner. Hops where giver and receiver coincide are
// filtered with a diagnostic - they cannot occur on a properly built graph.
func Reconstruct(sel core.Selection, in *core.Instance) ([]core.Exchange, []core.Diagnostic, error) {
	if in == nil {
		return nil, nil, ErrNilInstance
	}

	var (
		exchanges []core.Exchange
		diags     []core.Diagnostic
	)
	for _, c := range sel {
		n := len(c)
		for i := 0; i < n; i++ {
			var (
				given    = c[i]
				received = c[(i+1)%n]
				giver    = in.Owner(given)
				receiver = in.Owner(received)
			)
			if giver == receiver {
				diags = append(diags, core.Diagnostic{
					Message: fmt.Sprintf("participant %q would trade %q for own item %q: hop skipped", giver, given, received),
				})
				continue
			}
			exchanges = append(exchanges, core.Exchange{
				Giver:        displayName(in, giver),
				Receiver:     displayName(in, receiver),
				GivenItem:    given,
				ReceivedItem: received,
			})
		}
	}

	return exchanges, diags, nil
}

// UserSummary is one participant's row in the final report.
type UserSummary struct {
	ItemsOffered  []string `json:"items_offered"`
	ItemsGiven    []string `json:"items_given"`
	ItemsReceived []string `json:"items_received"`
}

// Summarize builds per-participant rows (every participant appears, traders
// or not) and returns them keyed by display name.
func Summarize(in *core.Instance, exchanges []core.Exchange) (map[string]*UserSummary, error) {
	if in == nil {
		return nil, ErrNilInstance
	}

	summary := make(map[string]*UserSummary, len(in.Users))
	for _, p := range in.Users {
		offered := make([]string, 0, len(p.Offers))
		for id := range p.Offers {
			offered = append(offered, id)
		}
		sort.Strings(offered)
		summary[p.DisplayName()] = &UserSummary{ItemsOffered: offered}
	}

	for _, ex := range exchanges {
		if row, ok := summary[ex.Giver]; ok {
			row.ItemsGiven = append(row.ItemsGiven, ex.GivenItem)
			row.ItemsReceived = append(row.ItemsReceived, ex.ReceivedItem)
		}
	}

	return summary, nil
}

// Participation returns the percentage of participants with at least one
// give or receive.
func Participation(summary map[string]*UserSummary) float64 {
	if len(summary) == 0 {
		return 0
	}
	trading := 0
	for _, row := range summary {
		if len(row.ItemsGiven) > 0 || len(row.ItemsReceived) > 0 {
			trading++
		}
	}

	return float64(trading) / float64(len(summary)) * 100
}

// Effectiveness returns the percentage of offered items that actually move.
func Effectiveness(summary map[string]*UserSummary) float64 {
	offered, given := 0, 0
	for _, row := range summary {
		offered += len(row.ItemsOffered)
		given += len(row.ItemsGiven)
	}
	if offered == 0 {
		return 0
	}

	return float64(given) / float64(offered) * 100
}

// Metrics is the per-input-file benchmark record, serialised with
// snake_case keys into the metrics artifact.
type Metrics struct {
	RunID                       string  `json:"run_id"`
	Algorithm                   string  `json:"algorithm"`
	NumUsers                    int     `json:"num_users"`
	NumItems                    int     `json:"num_items"`
	NumCyclesFound              int     `json:"num_cycles_found"`
	NumCyclesSelected           int     `json:"num_cycles_selected"`
	NumExchanges                int     `json:"num_exchanges"`
	ParticipationPercent        float64 `json:"participation_percent"`
	OverallEffectivenessPercent float64 `json:"overall_effectiveness_percent"`
	ILPNumVariables             int     `json:"ilp_num_variables"`
	ILPNumConstraints           int     `json:"ilp_num_constraints"`
	SolverTimeSeconds           float64 `json:"solver_time_seconds"`
	ExecutionTimeSeconds        float64 `json:"execution_time_seconds"`
	MemoryPeakMB                float64 `json:"memory_peak_mb"`
	NumWarnings                 int     `json:"num_warnings"`
	Status                      string  `json:"status"`
	Cancelled                   bool    `json:"cancelled"`
}

// PeakMemoryMB samples the process memory high-water mark (bytes obtained
// from the OS, which only grows) in MiB.
func PeakMemoryMB() float64 {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	return float64(ms.Sys) / (1024 * 1024)
}

// WriteMetricsFile merges m under key into the JSON object at path,
// creating the file when absent. Existing entries for other keys survive.
func WriteMetricsFile(path, key string, m Metrics) error {
	all := make(map[string]Metrics)
	if data, err := os.ReadFile(path); err == nil {
		// Corrupt existing content is replaced rather than fatal: the
		// metrics artifact is an output, not an input.
		_ = json.Unmarshal(data, &all)
	}
	all[key] = m

	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return fmt.Errorf("report: encode metrics: %w", err)
	}

	return os.WriteFile(path, data, 0o644)
}

// displayName resolves a canonical owner key to its display form.
func displayName(in *core.Instance, owner string) string {
	if p, ok := in.Users[owner]; ok {
		return p.DisplayName()
	}

	return owner
}
