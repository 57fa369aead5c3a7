// Command plangen generates weekly meal plans from the command line, either for
// one profile given by flags or for a JSON file of profiles.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/mealplanner/backend/config"
	"github.com/mealplanner/backend/internal/domain"
	"github.com/mealplanner/backend/internal/infrastructure/catalog"
	"github.com/mealplanner/backend/internal/infrastructure/logging"
	"github.com/mealplanner/backend/internal/usecase"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
)

type options struct {
	catalog  config.CatalogConfig
	profiles string
	parallel int
	seed     uint64
	logLevel string
	pretty   bool
	request  domain.PlanRequest
}

// batchResult is one entry of the batch output
type batchResult struct {
	Index int                `json:"index"`
	User  string             `json:"user,omitempty"`
	Plan  *domain.WeeklyPlan `json:"plan,omitempty"`
	Error string             `json:"error,omitempty"`
}

func main() {
	if err := config.LoadEnvFile(); err != nil {
		fmt.Fprintf(os.Stderr, "plangen: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "plangen: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string) (*options, error) {
	opts := &options{}
	var weight, height, age string

	fs := flag.NewFlagSet("plangen", flag.ContinueOnError)
	fs.StringVar(&opts.catalog.Source, "source", config.CatalogSourceFile, "catalog source: file, sqlite or postgres")
	fs.StringVar(&opts.catalog.Path, "catalog", "data/foods.csv", "catalog file (csv/json) or sqlite database")
	fs.StringVar(&opts.catalog.DSN, "dsn", os.Getenv("MEALPLANNER_CATALOG_DSN"), "postgres connection string")
	fs.StringVar(&opts.catalog.Table, "table", "foods", "catalog table for sqlite/postgres")
	fs.StringVar(&opts.profiles, "profiles", "", "JSON file with an array of plan requests")
	fs.IntVar(&opts.parallel, "parallel", 4, "profiles generated concurrently")
	fs.Uint64Var(&opts.seed, "seed", 0, "fixed random seed (0 = random)")
	fs.StringVar(&opts.logLevel, "log-level", "warn", "log level")
	fs.BoolVar(&opts.pretty, "pretty", false, "indent JSON output")

	fs.StringVar(&weight, "weight", "", "weight in kg")
	fs.StringVar(&height, "height", "", "height in cm")
	fs.StringVar(&age, "age", "", "age in years")
	fs.StringVar(&opts.request.Gender, "gender", "female", "male or female")
	fs.StringVar(&opts.request.ActivityLevel, "activity", "sedentary", "activity level")
	fs.StringVar(&opts.request.Goal, "goal", "maintenance", "muscle gain, weight loss or maintenance")
	fs.StringVar(&opts.request.UserID, "user", "", "user id carried into the plan")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	opts.request.Weight = domain.Numeric(weight)
	opts.request.Height = domain.Numeric(height)
	opts.request.Age = domain.Numeric(age)

	if opts.profiles == "" && (weight == "" || height == "" || age == "") {
		return nil, errors.New("either -profiles or all of -weight, -height and -age are required")
	}
	if opts.parallel < 1 {
		opts.parallel = 1
	}
	return opts, nil
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	logger, err := logging.NewTo(opts.logLevel, "cli", zapcore.Lock(os.Stderr))
	if err != nil {
		return err
	}
	defer logger.Sync()

	foods, err := catalog.Open(ctx, opts.catalog, logger)
	if err != nil {
		return err
	}

	service := usecase.NewPlanService(foods, logger, usecase.PlanServiceConfig{Seed: opts.seed})

	encoder := json.NewEncoder(stdout)
	if opts.pretty {
		encoder.SetIndent("", "  ")
	}

	if opts.profiles == "" {
		plan, err := service.GeneratePlan(ctx, &opts.request)
		if err != nil {
			return err
		}
		return encoder.Encode(plan)
	}

	requests, err := readProfiles(opts.profiles)
	if err != nil {
		return err
	}

	results, err := generateBatch(ctx, service, requests, opts.parallel, logger)
	if err != nil {
		return err
	}
	return encoder.Encode(results)
}

func readProfiles(path string) ([]domain.PlanRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profiles: %w", err)
	}
	var requests []domain.PlanRequest
	if err := json.Unmarshal(data, &requests); err != nil {
		return nil, fmt.Errorf("failed to decode profiles: %w", err)
	}
	return requests, nil
}

// generateBatch plans every profile, at most parallel at a time. A profile with
// bad input is reported in its result; only cancellation aborts the batch.
func generateBatch(
	ctx context.Context,
	service *usecase.PlanService,
	requests []domain.PlanRequest,
	parallel int,
	logger *zap.Logger,
) ([]batchResult, error) {
	results := make([]batchResult, len(requests))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)

	for i := range requests {
		g.Go(func() error {
			req := requests[i]
			results[i] = batchResult{Index: i, User: req.UserID}

			plan, err := service.GeneratePlan(gctx, &req)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				logger.Warn("profile skipped", zap.Int("index", i), zap.Error(err))
				results[i].Error = err.Error()
				return nil
			}
			results[i].Plan = plan
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
