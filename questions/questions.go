package questions

import (
	"context"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/GlintPay/grip/store"
)

const (
	minExtra = 3
	maxExtra = 5
)

type Lister interface {
	Questions(ctx context.Context, category string) ([]store.Question, error)
}

// SelectDaily returns every core question followed by 3 to 5 pool questions. The pool pick is
// seeded by the date, so a given day always gets the same questions.
func SelectDaily(all []store.Question, date time.Time) []store.Question {
	var core, pool []store.Question
	for _, q := range all {
		if q.IsCore {
			core = append(core, q)
		} else {
			pool = append(pool, q)
		}
	}

	seed, _ := strconv.ParseUint(date.Format("20060102"), 10, 64)
	rng := rand.New(rand.NewPCG(seed, seed))

	n := min(minExtra+rng.IntN(maxExtra-minExtra+1), len(pool))

	// partial Fisher-Yates over a copy
	picked := make([]store.Question, len(pool))
	copy(picked, pool)
	for i := 0; i < n; i++ {
		j := i + rng.IntN(len(picked)-i)
		picked[i], picked[j] = picked[j], picked[i]
	}

	return append(core, picked[:n]...)
}

func Daily(ctx context.Context, l Lister, date time.Time) ([]store.Question, error) {
	all, err := l.Questions(ctx, store.CategoryDaily)
	if err != nil {
		return nil, err
	}
	return SelectDaily(all, date), nil
}

// Weekly returns every active week review question
func Weekly(ctx context.Context, l Lister) ([]store.Question, error) {
	return l.Questions(ctx, store.CategoryWeekly)
}
