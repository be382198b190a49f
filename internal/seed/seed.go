// Package seed generates demo projects for local development.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sort"
	"time"

	"projectdash/internal/domain/models"
	"projectdash/internal/domain/repositories"
	"projectdash/internal/domain/services"
	"projectdash/internal/service"
)

// DefaultCount is the number of projects `seed run` creates
const DefaultCount = 30

// Options control one seeding run
type Options struct {
	Count int
	// SpreadCreated backdates createdAt across the trailing year so the
	// monthly trend has data.
	SpreadCreated bool
	// Seed makes the run reproducible; zero picks a random seed.
	Seed uint64
}

// Seeder replaces the store contents with generated demo projects
type Seeder struct {
	store     repositories.ProjectStore
	txManager repositories.TransactionManager
	fixtures  *Fixtures
	now       func() time.Time
	logger    *slog.Logger
}

// NewSeeder creates a seeder over store
func NewSeeder(
	store repositories.ProjectStore,
	txManager repositories.TransactionManager,
	fixtures *Fixtures,
	logger *slog.Logger,
) *Seeder {
	return &Seeder{
		store:     store,
		txManager: txManager,
		fixtures:  fixtures,
		now:       time.Now,
		logger:    logger,
	}
}

// draft is a generated project before it is stored
type draft struct {
	request   *services.CreateProjectRequest
	createdAt time.Time
}

// Run clears the store and inserts opts.Count projects in one transaction.
// Projects go through the project service so they pass the same
// validation as API input. Returned projects are newest first.
func (s *Seeder) Run(ctx context.Context, opts Options) ([]models.Project, error) {
	if opts.Count < 1 {
		return nil, fmt.Errorf("count must be at least 1, got %d", opts.Count)
	}

	seed := opts.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	now := s.now().UTC()
	drafts := s.generate(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)), now, opts)

	var clock time.Time
	projectService := service.NewProjectService(s.store, service.ListLimits{Default: 10, Max: 100}, s.logger,
		service.WithClock(func() time.Time { return clock }))

	created := make([]models.Project, 0, len(drafts))
	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		removed, err := s.store.DeleteAll(ctx)
		if err != nil {
			return err
		}
		s.logger.Info("cleared existing projects", "count", removed)

		for _, d := range drafts {
			clock = d.createdAt
			project, err := projectService.CreateProject(ctx, d.request)
			if err != nil {
				return fmt.Errorf("create %q: %w", d.request.Name, err)
			}
			created = append(created, *project)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(created, func(i, j int) bool {
		return created[i].CreatedAt.After(created[j].CreatedAt)
	})
	return created, nil
}

// Clear removes every project
func (s *Seeder) Clear(ctx context.Context) (int64, error) {
	return s.store.DeleteAll(ctx)
}

func (s *Seeder) generate(rng *rand.Rand, now time.Time, opts Options) []draft {
	f := s.fixtures
	drafts := make([]draft, 0, opts.Count)
	for range opts.Count {
		status := pickStatus(rng, f.StatusWeights)
		budget := models.MoneyFromInt(int64(between(rng, f.Budget)))

		progress := rng.IntN(91)
		if status == models.StatusCompleted {
			progress = 100
		}

		deadline := now.AddDate(0, 0, between(rng, f.DeadlineDays))

		createdAt := now
		if opts.SpreadCreated {
			createdAt = now.Add(-time.Duration(rng.Int64N(int64(service.TrendWindow))))
		}

		drafts = append(drafts, draft{
			request: &services.CreateProjectRequest{
				Name:       pick(rng, f.NamePrefixes) + " - " + pick(rng, f.NameSuffixes),
				Status:     status,
				Deadline:   deadline.Format("2006-01-02"),
				AssignedTo: pick(rng, f.TeamMembers),
				Budget:     &budget,
				Progress:   &progress,
			},
			createdAt: createdAt,
		})
	}
	return drafts
}

func pick(rng *rand.Rand, values []string) string {
	return values[rng.IntN(len(values))]
}

func between(rng *rand.Rand, r IntRange) int {
	return r.Min + rng.IntN(r.Max-r.Min+1)
}

// pickStatus draws a status by weight, iterating in display order so a
// given seed is reproducible.
func pickStatus(rng *rand.Rand, weights map[models.Status]int) models.Status {
	total := 0
	for _, status := range models.AllStatuses {
		total += weights[status]
	}
	n := rng.IntN(total)
	for _, status := range models.AllStatuses {
		if n < weights[status] {
			return status
		}
		n -= weights[status]
	}
	return models.StatusActive
}
