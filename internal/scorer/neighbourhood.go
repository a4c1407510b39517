package scorer

import (
	"math"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/neighbourhood-cli/internal/model"
	"github.com/sells-group/neighbourhood-cli/internal/reference"
)

// MaxScore is the upper bound of every sub-score.
const MaxScore = 10.0

// FiberTechnology is the technology name the coverage feed uses for fiber.
const FiberTechnology = "Fiber"

var (
	// ErrMissingLevel is returned when a configured education level has no count.
	ErrMissingLevel = eris.New("scorer: education level missing")
	// ErrNoResidents is returned when the education distribution sums to zero.
	ErrNoResidents = eris.New("scorer: education distribution is empty")
	// ErrNoBaseline is returned when crime rows for an area or the country are missing.
	ErrNoBaseline = eris.New("scorer: crime baseline missing")
)

// Connectivity scores a broadband offering. The score starts at 10 and loses
// 2 without usable fiber, 1 for download under 1000 Mbit/s and 2 more under 100,
// 1 for upload under 100 Mbit/s and 2 more under 25. An empty offering scores 2.
func Connectivity(offering model.ConnectivityOffering) int {
	score := 10
	if !hasFiber(offering) {
		score -= 2
	}

	down, up := offering.Max()
	if down < 1000 {
		score--
	}
	if down < 100 {
		score -= 2
	}
	if up < 100 {
		score--
	}
	if up < 25 {
		score -= 2
	}
	return max(0, min(score, int(MaxScore)))
}

// hasFiber reports whether fiber is offered at a non-zero speed.
func hasFiber(offering model.ConnectivityOffering) bool {
	for tech, speed := range offering {
		if !strings.EqualFold(tech, FiberTechnology) {
			continue
		}
		if speed.DownloadMbps > 0 || speed.UploadMbps > 0 {
			return true
		}
	}
	return false
}

// Crime scores the municipality's offences per 100,000 residents against the
// national rate. Equal rates score 5, no offences score 10, and a ratio of
// sqrt(2) or worse scores 0.
func Crime(records model.CrimeRecords, municipality string, population int64, national reference.NationalConfig) (float64, error) {
	if population <= 0 {
		return 0, eris.Errorf("scorer: population of %s must be > 0, got %d", municipality, population)
	}
	if national.Population <= 0 {
		return 0, eris.Errorf("scorer: national population must be > 0, got %d", national.Population)
	}

	area := records.ForArea(municipality)
	if len(area) == 0 {
		return 0, eris.Wrapf(ErrNoBaseline, "no crime rows for %s", municipality)
	}
	country := records.ForArea(national.Label)
	if len(country) == 0 {
		return 0, eris.Wrapf(ErrNoBaseline, "no crime rows for %s", national.Label)
	}

	areaRate := perHundredThousand(area.Sum(), population)
	nationalRate := perHundredThousand(country.Sum(), national.Population)
	if nationalRate == 0 {
		return 0, eris.Wrap(ErrNoBaseline, "national crime rate is zero")
	}

	ratio := areaRate / nationalRate
	return MaxScore - math.Min(ratio*ratio*5, MaxScore), nil
}

func perHundredThousand(count, population int64) float64 {
	return float64(count) / float64(population) * 100_000
}

// Education scores an education distribution. Levels are weighted 1.0, growth,
// growth², ... from lowest to highest attainment; the score is the weighted
// mean minus one, capped at 10. There is no lower bound.
func Education(dist model.EducationDistribution, levels []string, growth float64) (float64, error) {
	var weighted float64
	var total int64
	weight := 1.0
	for _, code := range levels {
		n, ok := dist.Count(code)
		if !ok {
			return 0, eris.Wrapf(ErrMissingLevel, "level %s", code)
		}
		weighted += float64(n) * weight
		total += n
		weight *= growth
	}
	if total == 0 {
		return 0, ErrNoResidents
	}
	return math.Min(weighted/float64(total)-1, MaxScore), nil
}

// Round2 rounds to two decimals on the exact binary value, ties to even.
// 2.675 is stored just below the tie and becomes 2.67.
func Round2(v float64) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 2, 64), 64)
	if err != nil {
		return v
	}
	return r
}

// Combine rounds the sub-scores and returns them with their rounded mean.
func Combine(connectivity int, crime, education float64) (model.ScoreTriple, float64) {
	triple := model.ScoreTriple{
		Connectivity: connectivity,
		Crime:        Round2(crime),
		Education:    Round2(education),
	}
	final := Round2((float64(triple.Connectivity) + triple.Crime + triple.Education) / 3)
	return triple, final
}

// Compare returns the report with the higher final score. The first report
// wins only when strictly greater.
func Compare(a, b model.Report) model.Report {
	if a.Final > b.Final {
		return a
	}
	return b
}
