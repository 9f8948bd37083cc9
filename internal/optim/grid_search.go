package optim

import (
	"context"
	"math"

	"github.com/san-kum/mcwalk/internal/stats"
)

// Objective scores a finished run; lower is better. Typical objectives
// wrap stats.Compare against an analytic reference.
type Objective func(*stats.Result) float64

// GridSearch exhaustively evaluates every combination of the given
// parameter values and keeps the assignment with the lowest objective.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

func (g *GridSearch) Search(
	ctx context.Context,
	run func(ctx context.Context, params map[string]float64) (*stats.Result, error),
	objective Objective,
) (map[string]float64, float64, error) {

	best := math.Inf(1)
	var bestParams map[string]float64

	err := g.searchRecursive(ctx, 0, make(map[string]float64), run, objective, &best, &bestParams)
	if err != nil {
		return nil, 0, err
	}

	return bestParams, best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	run func(context.Context, map[string]float64) (*stats.Result, error),
	objective Objective,
	best *float64,
	bestParams *map[string]float64,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		result, err := run(ctx, current)
		if err != nil {
			// A bad combination is skipped, not fatal; the search
			// reports the best of what completed.
			return nil
		}

		val := objective(result)
		if val < *best {
			*best = val
			*bestParams = make(map[string]float64)
			for k, v := range current {
				(*bestParams)[k] = v
			}
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		next := make(map[string]float64)
		for k, v := range current {
			next[k] = v
		}
		next[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, next, run, objective, best, bestParams); err != nil {
			return err
		}
	}
	return nil
}
