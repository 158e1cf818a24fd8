// Package genetic searches for a high-participation selection of disjoint
// trade cycles with a generational genetic algorithm.
//
// Representation: a chromosome is a list of pairwise item-disjoint cycles
// drawn from the enumerated pool (stored as pool indices). Fitness is the
// number of distinct participants covered by the chromosome's cycles.
//
// The generation loop follows the classic recipe - elitism, roulette parent
// selection, conflict-avoiding crossover, add/remove mutation - with two
// escape hatches: the mutation rate grows 1.5× (capped) after a stagnation
// window without improvement, and fresh chromosomes are injected whenever
// population diversity falls below a floor.
//
// Determinism: identical pool + Options (including Seed) reproduce the run
// exactly. Cancellation is checked between generations; an interrupted run
// returns the best chromosome seen so far.
package genetic

import (
	"context"
	"errors"
	"math/rand"
	"sort"
	"strings"

	"github.com/katalvlaran/mathtrade/core"
)

// Defaults for Options; values mirror the solver's tuned configuration.
const (
	DefaultPopulation        = 100
	DefaultGenerations       = 200
	DefaultCrossoverRate     = 0.8
	DefaultMutationRate      = 0.1
	DefaultEliteSize         = 2
	DefaultStagnationWindow  = 10
	DefaultDiversityFloor    = 0.1
	DefaultInjectionFraction = 0.2
	DefaultMutationCeiling   = 0.5
)

// Sentinel errors.
var (
	// ErrNilInstance indicates no instance was provided to resolve owners.
	ErrNilInstance = errors.New("genetic: nil instance")

	// ErrBadOptions indicates non-positive population or generations, or a
	// rate outside [0,1].
	ErrBadOptions = errors.New("genetic: invalid options")
)

// Options tunes the evolutionary search. Zero value is not meaningful; start
// from DefaultOptions.
type Options struct {
	// Population is the chromosome count P.
	Population int

	// Generations is the iteration count G.
	Generations int

	// CrossoverRate sizes the parent pool: N = ⌊P·rate⌋.
	CrossoverRate float64

	// MutationRate is the initial per-child mutation probability.
	MutationRate float64

	// EliteSize is the number of top chromosomes copied unchanged.
	EliteSize int

	// StagnationWindow is how many generations without improvement trigger
	// a mutation-rate boost (×1.5, capped at MutationCeiling).
	StagnationWindow int

	// DiversityFloor is the minimum fraction of distinct chromosomes; below
	// it, ⌊P·InjectionFraction⌋ fresh chromosomes are injected.
	DiversityFloor float64

	// InjectionFraction sizes the injection batch.
	InjectionFraction float64

	// MutationCeiling caps the boosted mutation rate.
	MutationCeiling float64

	// Seed drives all randomness; 0 selects the fixed default stream.
	Seed int64
}

// DefaultOptions returns the tuned defaults stated above.
func DefaultOptions() Options {
	return Options{
		Population:        DefaultPopulation,
		Generations:       DefaultGenerations,
		CrossoverRate:     DefaultCrossoverRate,
		MutationRate:      DefaultMutationRate,
		EliteSize:         DefaultEliteSize,
		StagnationWindow:  DefaultStagnationWindow,
		DiversityFloor:    DefaultDiversityFloor,
		InjectionFraction: DefaultInjectionFraction,
		MutationCeiling:   DefaultMutationCeiling,
		Seed:              0,
	}
}

// Stats summarises one run.
type Stats struct {
	// Generations actually executed (less than configured when cancelled).
	Generations int

	// BestFitness is the participant count of the returned selection.
	BestFitness int

	// Cancelled is set when ctx fired mid-run.
	Cancelled bool
}

// Solve evolves a selection over pool, resolving ownership through in.
//
// Contracts:
//   - the returned selection is item-disjoint (crossover and mutation only
//     ever produce conflict-free chromosomes),
//   - identical inputs and seed reproduce the result exactly.
//
// Complexity: O(G·P·pool) worst case; in practice dominated by conflict
// scans over chromosome item sets.
func Solve(ctx context.Context, pool []core.Cycle, in *core.Instance, opts Options) (core.Selection, Stats, error) {
	if in == nil {
		return nil, Stats{}, ErrNilInstance
	}
	if err := validate(opts); err != nil {
		return nil, Stats{}, err
	}
	if len(pool) == 0 {
		return nil, Stats{}, nil
	}

	s := newState(pool, in, opts)
	best, stats := s.run(ctx)

	sel := make(core.Selection, 0, len(best))
	for _, c := range best {
		sel = append(sel, pool[c])
	}

	return sel, stats, nil
}

func validate(o Options) error {
	switch {
	case o.Population <= 0, o.Generations <= 0, o.EliteSize < 0:
		return ErrBadOptions
	case o.CrossoverRate < 0 || o.CrossoverRate > 1:
		return ErrBadOptions
	case o.MutationRate < 0 || o.MutationRate > 1:
		return ErrBadOptions
	}

	return nil
}

// chromosome is a conflict-free list of pool indices.
type chromosome []int

// state carries one run of the algorithm.
type state struct {
	pool   []core.Cycle
	owners [][]string // distinct owners per pool cycle
	opts   Options

	initRNG *rand.Rand
	loopRNG *rand.Rand
}

func newState(pool []core.Cycle, in *core.Instance, opts Options) *state {
	s := &state{pool: pool, opts: opts}
	s.owners = make([][]string, len(pool))
	for i, c := range pool {
		seen := make(map[string]struct{}, len(c))
		for _, id := range c {
			owner := in.Owner(id)
			if owner == core.Unknown {
				continue
			}
			if _, dup := seen[owner]; dup {
				continue
			}
			seen[owner] = struct{}{}
			s.owners[i] = append(s.owners[i], owner)
		}
	}

	base := rngFromSeed(opts.Seed)
	s.initRNG = rand.New(rand.NewSource(deriveSeed(base.Int63(), 1)))
	s.loopRNG = rand.New(rand.NewSource(deriveSeed(base.Int63(), 2)))

	return s
}

// run executes the generation loop and returns the best chromosome ever seen.
func (s *state) run(ctx context.Context) (chromosome, Stats) {
	var (
		o          = s.opts
		population = make([]chromosome, 0, o.Population)

		best        chromosome
		bestFitness = -1

		stagnation   = 0
		mutationRate = o.MutationRate

		stats Stats
	)

	for i := 0; i < o.Population; i++ {
		population = append(population, s.freshChromosome(s.initRNG))
	}

	for gen := 0; gen < o.Generations; gen++ {
		if ctx.Err() != nil {
			stats.Cancelled = true
			break
		}
		stats.Generations = gen + 1

		fitness := make([]int, len(population))
		for i, ch := range population {
			fitness[i] = s.fitness(ch)
		}
		sortByFitness(population, fitness)

		if fitness[0] > bestFitness {
			bestFitness = fitness[0]
			best = append(chromosome(nil), population[0]...)
			stagnation = 0
		} else {
			stagnation++
		}

		// Elitism.
		next := make([]chromosome, 0, o.Population)
		for i := 0; i < o.EliteSize && i < len(population); i++ {
			next = append(next, append(chromosome(nil), population[i]...))
		}

		// Parent pool by roulette; uniform when all fitness is zero.
		numParents := int(float64(o.Population) * o.CrossoverRate)
		if numParents < 2 {
			numParents = 2
		}
		parents := s.selectParents(population, fitness, numParents)

		for len(next) < o.Population {
			a, b := s.twoDistinct(len(parents))
			child := s.crossover(parents[a], parents[b])
			child = s.mutate(child, mutationRate)
			next = append(next, child)
		}
		population = next

		// Stagnation escape: boost mutation, capped.
		if stagnation >= o.StagnationWindow {
			mutationRate *= 1.5
			if mutationRate > o.MutationCeiling {
				mutationRate = o.MutationCeiling
			}
			stagnation = 0
		}

		// Diversity floor: inject fresh blood in place of the tail (elites sit
		// at the front), so the size stays P.
		if s.diversity(population) < o.DiversityFloor {
			inject := int(float64(o.Population) * o.InjectionFraction)
			if inject > len(population) {
				inject = len(population)
			}
			for i := len(population) - inject; i < len(population); i++ {
				population[i] = s.freshChromosome(s.loopRNG)
			}
		}
	}

	if bestFitness < 0 {
		bestFitness = 0
	}
	stats.BestFitness = bestFitness

	return best, stats
}

// freshChromosome shuffles the pool and packs cycles greedily without
// conflicts - the initialization procedure, reused for injections.
func (s *state) freshChromosome(rng *rand.Rand) chromosome {
	var (
		ch   chromosome
		used = make(map[string]struct{})
	)
	for _, c := range shuffledIndices(len(s.pool), rng) {
		if s.conflicts(s.pool[c], used) {
			continue
		}
		ch = append(ch, c)
		s.commit(s.pool[c], used)
	}

	return ch
}

// fitness counts distinct participants covered by ch.
func (s *state) fitness(ch chromosome) int {
	players := make(map[string]struct{})
	for _, c := range ch {
		for _, owner := range s.owners[c] {
			players[owner] = struct{}{}
		}
	}

	return len(players)
}

// selectParents draws n parents by fitness-proportional sampling with
// replacement; all-zero fitness degrades to uniform draws.
func (s *state) selectParents(population []chromosome, fitness []int, n int) []chromosome {
	total := 0
	for _, f := range fitness {
		total += f
	}

	parents := make([]chromosome, 0, n)
	for i := 0; i < n; i++ {
		if total == 0 {
			parents = append(parents, population[s.loopRNG.Intn(len(population))])
			continue
		}
		ticket := s.loopRNG.Intn(total)
		acc := 0
		for j, f := range fitness {
			acc += f
			if ticket < acc {
				parents = append(parents, population[j])
				break
			}
		}
	}

	return parents
}

// twoDistinct draws two different indices in [0, n).
func (s *state) twoDistinct(n int) (int, int) {
	if n < 2 {
		return 0, 0
	}
	a := s.loopRNG.Intn(n)
	b := s.loopRNG.Intn(n - 1)
	if b >= a {
		b++
	}

	return a, b
}

// crossover packs parent A's cycles, then parent B's, skipping conflicts.
// The child is conflict-free by construction.
func (s *state) crossover(a, b chromosome) chromosome {
	var (
		child chromosome
		used  = make(map[string]struct{})
	)
	for _, parent := range [2]chromosome{a, b} {
		for _, c := range parent {
			if s.conflicts(s.pool[c], used) {
				continue
			}
			child = append(child, c)
			s.commit(s.pool[c], used)
		}
	}

	return child
}

// mutate, with probability rate, either adds a random compatible cycle or
// removes a random one (no-op when impossible).
func (s *state) mutate(ch chromosome, rate float64) chromosome {
	if s.loopRNG.Float64() >= rate {
		return ch
	}

	if s.loopRNG.Intn(2) == 0 {
		// add
		used := make(map[string]struct{})
		for _, c := range ch {
			s.commit(s.pool[c], used)
		}
		var candidates []int
		for c := range s.pool {
			if !s.conflicts(s.pool[c], used) {
				candidates = append(candidates, c)
			}
		}
		if len(candidates) > 0 {
			ch = append(ch, candidates[s.loopRNG.Intn(len(candidates))])
		}

		return ch
	}

	// remove
	if len(ch) == 0 {
		return ch
	}
	victim := s.loopRNG.Intn(len(ch))

	return append(ch[:victim:victim], ch[victim+1:]...)
}

// diversity is the fraction of distinct chromosomes, where a chromosome is
// identified by its set of cycles and each cycle by its sorted item set.
func (s *state) diversity(population []chromosome) float64 {
	distinct := make(map[string]struct{}, len(population))
	for _, ch := range population {
		keys := make([]string, 0, len(ch))
		for _, c := range ch {
			keys = append(keys, s.pool[c].Key())
		}
		sort.Strings(keys)
		distinct[strings.Join(keys, "\x1e")] = struct{}{}
	}

	return float64(len(distinct)) / float64(len(population))
}

// conflicts reports whether cycle c shares an item with used.
func (s *state) conflicts(c core.Cycle, used map[string]struct{}) bool {
	for _, id := range c {
		if _, taken := used[id]; taken {
			return true
		}
	}

	return false
}

// commit marks cycle c's items as used.
func (s *state) commit(c core.Cycle, used map[string]struct{}) {
	for _, id := range c {
		used[id] = struct{}{}
	}
}

// sortByFitness orders population (and fitness) by descending fitness,
// stably, so equal-fitness order is reproducible.
func sortByFitness(population []chromosome, fitness []int) {
	type pair struct {
		ch chromosome
		f  int
	}
	pairs := make([]pair, len(population))
	for i := range population {
		pairs[i] = pair{population[i], fitness[i]}
	}
	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].f > pairs[j].f })
	for i := range pairs {
		population[i], fitness[i] = pairs[i].ch, pairs[i].f
	}
}
