// Package checker runs the neighbourhood check for one or two addresses: resolve
// the address, fetch crime, connectivity, education and population data one
// source at a time, then score.
package checker

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/neighbourhood-cli/internal/model"
	"github.com/sells-group/neighbourhood-cli/internal/monitoring"
	"github.com/sells-group/neighbourhood-cli/internal/reference"
	"github.com/sells-group/neighbourhood-cli/internal/scorer"
)

// Resolver turns a free-text address into a municipality and address identifier.
type Resolver interface {
	Resolve(ctx context.Context, addr model.Address) (*model.ResolvedLocation, error)
}

// StatisticsSource serves the municipality-level statistics tables.
type StatisticsSource interface {
	FetchEducation(ctx context.Context, municipality string) (model.EducationDistribution, error)
	FetchCrime(ctx context.Context, municipality string) (model.CrimeRecords, error)
	FetchPopulation(ctx context.Context, municipality string) (int64, error)
}

// ConnectivitySource serves the broadband offering of an address identifier.
type ConnectivitySource interface {
	Fetch(ctx context.Context, addressID string) (model.ConnectivityOffering, error)
}

// Sources groups the data sources a Checker calls.
type Sources struct {
	Resolver     Resolver
	Statistics   StatisticsSource
	Connectivity ConnectivitySource
}

// Checker scores addresses.
type Checker struct {
	src     Sources
	ref     *reference.Tables
	metrics *monitoring.Metrics
	newID   func() string
}

// New creates a Checker. metrics may be nil.
func New(src Sources, ref *reference.Tables, metrics *monitoring.Metrics) *Checker {
	return &Checker{
		src:     src,
		ref:     ref,
		metrics: metrics,
		newID:   uuid.NewString,
	}
}

// Check runs the full pipeline for one address.
func (c *Checker) Check(ctx context.Context, addr model.Address) (*model.Report, error) {
	start := time.Now()
	id := c.newID()
	log := zap.L().With(zap.String("check_id", id), zap.String("address", addr.String()))

	report, err := c.check(ctx, log, id, addr)
	c.metrics.ObserveCheck(report, err, time.Since(start))
	if err != nil {
		log.Debug("check failed", zap.Error(err))
		return nil, err
	}

	log.Info("check complete",
		zap.Int("connectivity", report.Scores.Connectivity),
		zap.Float64("crime", report.Scores.Crime),
		zap.Float64("education", report.Scores.Education),
		zap.Float64("final", report.Final),
		zap.Duration("elapsed", time.Since(start)),
	)
	return report, nil
}

func (c *Checker) check(ctx context.Context, log *zap.Logger, id string, addr model.Address) (*model.Report, error) {
	loc, err := c.src.Resolver.Resolve(ctx, addr)
	if err != nil {
		return nil, eris.Wrap(err, "checker: resolve address")
	}
	log = log.With(zap.String("municipality", loc.Municipality), zap.String("address_id", loc.AddressID))
	if coords := loc.Coordinates(); coords != nil {
		log.Debug("address resolved", zap.Float64s("access_point", coords))
	}

	crime, err := c.src.Statistics.FetchCrime(ctx, loc.Municipality)
	if err != nil {
		return nil, eris.Wrap(err, "checker: fetch crime")
	}
	log.Debug("crime fetched", zap.Int("rows", len(crime)))

	offering, err := c.src.Connectivity.Fetch(ctx, loc.AddressID)
	if err != nil {
		return nil, eris.Wrap(err, "checker: fetch connectivity")
	}
	log.Debug("connectivity fetched", zap.Int("technologies", len(offering)))

	education, err := c.src.Statistics.FetchEducation(ctx, loc.Municipality)
	if err != nil {
		return nil, eris.Wrap(err, "checker: fetch education")
	}

	population, err := c.src.Statistics.FetchPopulation(ctx, loc.Municipality)
	if err != nil {
		return nil, eris.Wrap(err, "checker: fetch population")
	}

	crimeScore, err := scorer.Crime(crime, loc.Municipality, population, c.ref.National)
	if err != nil {
		return nil, eris.Wrap(err, "checker: score crime")
	}
	eduScore, err := scorer.Education(education, c.ref.Education.LevelCodes(), c.ref.Education.WeightGrowth)
	if err != nil {
		return nil, eris.Wrap(err, "checker: score education")
	}

	triple, final := scorer.Combine(scorer.Connectivity(offering), crimeScore, eduScore)
	return &model.Report{
		CheckID:  id,
		Address:  addr,
		Location: *loc,
		Scores:   triple,
		Final:    final,
	}, nil
}

// Compare checks both addresses one after the other and picks the better one.
// Ties go to the second address.
func (c *Checker) Compare(ctx context.Context, a, b model.Address) (*model.Comparison, error) {
	first, err := c.Check(ctx, a)
	if err != nil {
		return nil, eris.Wrapf(err, "checker: first address %s", a.Short())
	}
	second, err := c.Check(ctx, b)
	if err != nil {
		return nil, eris.Wrapf(err, "checker: second address %s", b.Short())
	}
	return &model.Comparison{
		First:  *first,
		Second: *second,
		Best:   scorer.Compare(*first, *second),
	}, nil
}
