package secrets

import (
	"context"
	"fmt"
	"sort"
	"strings"

	gotel "github.com/GlintPay/grip/otel"
	"github.com/emirpasic/gods/sets/hashset"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

type Merger struct {
	EnableTrace bool
	Resolvers   []ReferenceResolver
}

// Merge loads every source concurrently then layers them by ascending order, so that the
// highest-ordered source wins. Ties keep configuration order. References are dereferenced last.
func (m *Merger) Merge(ctx context.Context, sources Sources) (Values, Metadata, error) {
	ctx, end := gotel.StartSpan(ctx, m.EnableTrace, "merge-secrets", gotel.ServerOptions)
	defer end()

	ordered := make(Sources, len(sources))
	copy(ordered, sources)
	sort.SliceStable(ordered, Sorter{Sources: ordered}.Sort())

	snapshots := make([]*Snapshot, len(ordered))
	g, gctx := errgroup.WithContext(ctx)
	for i, src := range ordered {
		g.Go(func() error {
			snap, err := src.Load(gctx)
			if err != nil {
				return fmt.Errorf("secret source [%s]: %w", src.Name(), err)
			}
			snapshots[i] = snap
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, Metadata{}, err
	}

	merged := make(Values)
	meta := Metadata{
		Versions: make(map[string]string),
		Origins:  make(map[string]string),
	}

	for i, src := range ordered {
		snap := snapshots[i]
		if snap == nil {
			continue
		}
		if snap.Version != "" {
			meta.Versions[src.Name()] = snap.Version
		}
		for k, v := range snap.Values {
			if existing, ok := merged[k]; ok && existing == v {
				meta.PointlessOverrides = append(meta.PointlessOverrides, Duplicate{Key: k, Source: src.Name()})
			}
			merged[k] = v
			meta.Origins[k] = src.Name()
		}
	}

	if err := m.dereference(ctx, merged); err != nil {
		return nil, Metadata{}, err
	}

	meta.PrecedenceDisplayMessage = getSourceNames(ordered)

	if len(meta.PointlessOverrides) > 0 {
		log.Info().Msgf("Unnecessary overrides were found: %v", meta.PointlessOverrides)
	}

	return merged, meta, nil
}

func (m *Merger) dereference(ctx context.Context, values Values) error {
	if len(m.Resolvers) == 0 {
		return nil
	}

	unresolved := hashset.New()
	for name, value := range values {
		for _, r := range m.Resolvers {
			if !r.CanResolve(value) {
				continue
			}
			resolved, found, err := r.Resolve(ctx, value)
			if err != nil {
				return fmt.Errorf("resolving [%s]: %w", name, err)
			}
			if !found {
				unresolved.Add(name)
				break
			}
			values[name] = resolved
			break
		}
	}

	if unresolved.Size() > 0 {
		names := make([]string, 0, unresolved.Size())
		for _, v := range unresolved.Values() {
			names = append(names, v.(string))
		}
		sort.Strings(names)
		return fmt.Errorf("referenced secrets not found for: %s", strings.Join(names, ", "))
	}
	return nil
}

func getSourceNames(sources Sources) string {
	if len(sources) < 1 {
		return ""
	}

	var s []string
	for i := len(sources) - 1; i >= 0; i-- { // reverse order
		s = append(s, sources[i].Name())
	}
	return strings.Join(s, " > ")
}
