package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"golang.org/x/sync/errgroup"

	"github.com/samdwyer/turncore/internal/event"
	"github.com/samdwyer/turncore/internal/game"
	"github.com/samdwyer/turncore/internal/gamedata"
	"github.com/samdwyer/turncore/internal/rng"
	"github.com/samdwyer/turncore/internal/storage/sqlite"
)

// partyClasses is the allied lineup of every simulated battle.
var partyClasses = []string{"petrus", "rina", "toshiko"}

const enemiesPerBattle = 3

// roster holds the read-only templates shared by all battles.
type roster struct {
	classes  []*gamedata.ClassDef
	enemies  *gamedata.EnemyRegistry
	items    *gamedata.ItemRegistry
	profiles map[string]gamedata.ProfileDef
}

func loadRoster() (*roster, error) {
	classes, err := gamedata.LoadClassRegistry()
	if err != nil {
		return nil, fmt.Errorf("load classes: %w", err)
	}
	enemies, err := gamedata.LoadEnemyRegistry()
	if err != nil {
		return nil, fmt.Errorf("load enemies: %w", err)
	}
	items, err := gamedata.LoadItemRegistry()
	if err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}
	profiles, err := gamedata.LoadProfiles()
	if err != nil {
		return nil, fmt.Errorf("load ai profiles: %w", err)
	}
	party, err := classes.Party(partyClasses)
	if err != nil {
		return nil, err
	}
	return &roster{classes: party, enemies: enemies, items: items, profiles: profiles}, nil
}

// result summarizes one finished battle.
type result struct {
	Index    int
	Seed     int64
	Outcome  game.Outcome
	Ticks    uint32
	Rounds   uint32
	Deaths   int
	Loot     int
	LevelUps int
	Snapshot game.Snapshot
}

// simulate runs one AI-vs-AI battle to completion.
func simulate(ctx context.Context, r *roster, index int, seed int64, maxTicks uint32) (result, error) {
	catalog, err := gamedata.LoadCatalog()
	if err != nil {
		return result{}, fmt.Errorf("load abilities: %w", err)
	}
	b, err := game.New(game.Config{Seed: seed, MaxTicks: maxTicks}, catalog, r.profiles)
	if err != nil {
		return result{}, err
	}

	b.Deploy(r.classes, r.enemies.Lineup(rng.New(seed), enemiesPerBattle), r.items)

	res := result{Index: index, Seed: seed}
	b.Subscribe(func(e event.Event) {
		switch e.(type) {
		case event.Death:
			res.Deaths++
		case event.LootDrop:
			res.Loot++
		case event.LevelUp:
			res.LevelUps++
		}
	})

	outcome, err := b.Run(ctx)
	if err != nil {
		return result{}, fmt.Errorf("battle %d (seed %d): %w", index, seed, err)
	}
	res.Outcome = outcome
	res.Ticks = b.Now()
	res.Rounds = b.Round()
	res.Snapshot = b.Snapshot()
	slog.Debug("battle finished", "battle", index, "seed", seed, "outcome", outcome, "ticks", res.Ticks)
	return res, nil
}

// simulateAll runs battles concurrently; battle i uses seed+i.
func simulateAll(ctx context.Context, r *roster, seed int64, battles, workers int, maxTicks uint32) ([]result, error) {
	results := make([]result, battles)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range battles {
		g.Go(func() error {
			res, err := simulate(gctx, r, i, seed+int64(i), maxTicks)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func report(w io.Writer, results []result) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "battle\tseed\toutcome\tticks\trounds\tdeaths\tloot\tlevel-ups")
	tally := map[game.Outcome]int{}
	for _, r := range results {
		tally[r.Outcome]++
		fmt.Fprintf(tw, "%d\t%d\t%s\t%d\t%d\t%d\t%d\t%d\n",
			r.Index, r.Seed, r.Outcome, r.Ticks, r.Rounds, r.Deaths, r.Loot, r.LevelUps)
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "\n%d battles: %d victories, %d defeats, %d stalemates\n",
		len(results), tally[game.OutcomeVictory], tally[game.OutcomeDefeat], tally[game.OutcomeStalemate])
}

// persist archives every final snapshot and keeps the last one in the
// auto slot.
func persist(ctx context.Context, path string, results []result) error {
	store, err := sqlite.Open(ctx, path)
	if err != nil {
		return err
	}
	defer store.Close()

	for _, r := range results {
		if _, err := store.Archive(ctx, r.Snapshot); err != nil {
			return fmt.Errorf("archive battle %d: %w", r.Index, err)
		}
	}
	if len(results) > 0 {
		last := results[len(results)-1]
		if _, err := store.Save(ctx, sqlite.SlotAuto, last.Snapshot); err != nil {
			return fmt.Errorf("save auto slot: %w", err)
		}
	}
	return nil
}
