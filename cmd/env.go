package main

import (
	"time"

	"golang.org/x/time/rate"

	"github.com/sells-group/neighbourhood-cli/internal/broadband"
	"github.com/sells-group/neighbourhood-cli/internal/checker"
	"github.com/sells-group/neighbourhood-cli/internal/config"
	"github.com/sells-group/neighbourhood-cli/internal/dawa"
	"github.com/sells-group/neighbourhood-cli/internal/fetcher"
	"github.com/sells-group/neighbourhood-cli/internal/monitoring"
	"github.com/sells-group/neighbourhood-cli/internal/reference"
	"github.com/sells-group/neighbourhood-cli/internal/statbank"
)

// initChecker wires the data sources from configuration. metrics may be nil.
func initChecker(c *config.Config, metrics *monitoring.Metrics) (*checker.Checker, *reference.Tables, error) {
	ref, err := reference.Load(c.Reference.Path)
	if err != nil {
		return nil, nil, err
	}

	opts := fetcher.HTTPOptions{
		UserAgent:   c.HTTP.UserAgent,
		Timeout:     time.Duration(c.HTTP.TimeoutSecs) * time.Second,
		MaxAttempts: c.HTTP.MaxAttempts,
		RateLimit:   rate.Limit(c.HTTP.RateLimit),
	}
	if metrics != nil {
		opts.Observer = metrics
	}
	f := fetcher.NewHTTPFetcher(opts)

	chk := checker.New(checker.Sources{
		Resolver:     dawa.NewClient(f, c.DAWA.BaseURL),
		Statistics:   statbank.NewClient(f, c.Statbank.BaseURL, ref),
		Connectivity: broadband.NewClient(f, c.Broadband.BaseURL, c.Broadband.UID),
	}, ref, metrics)
	return chk, ref, nil
}
