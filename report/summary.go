package report

import (
	"io"
	"math"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/carbocation/pfx"
	"github.com/montanaflynn/stats"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

// Summary condenses a run into a handful of numbers for the log.
type Summary struct {
	Markers         int
	Individuals     int
	Monomorphic     int
	NoCalls         int
	DiscordantCalls int
	MedianMAF       float64
	MeanErrorRate   float64
	MaxErrorRate    float64
}

// Summarize aggregates marker statistics. Markers without calls do not
// contribute to the MAF and error rate aggregates, which are NaN when no
// marker has calls.
func Summarize(markers []MarkerStats, individuals int) Summary {
	out := Summary{
		Markers:       len(markers),
		Individuals:   individuals,
		MedianMAF:     math.NaN(),
		MeanErrorRate: math.NaN(),
		MaxErrorRate:  math.NaN(),
	}

	called := lo.Filter(markers, func(s MarkerStats, _ int) bool { return s.Called() > 0 })
	out.NoCalls = len(markers) - len(called)
	out.Monomorphic = lo.CountBy(called, func(s MarkerStats) bool { return s.MAF == 0 })
	out.DiscordantCalls = lo.SumBy(markers, func(s MarkerStats) int { return s.Discordant })

	if len(called) == 0 {
		return out
	}

	mafs := stats.Float64Data(lo.Map(called, func(s MarkerStats, _ int) float64 { return s.MAF }))
	errs := stats.Float64Data(lo.Map(called, func(s MarkerStats, _ int) float64 { return s.ErrorRate }))

	if v, err := stats.Median(mafs); err == nil {
		out.MedianMAF = v
	}
	if v, err := stats.Mean(errs); err == nil {
		out.MeanErrorRate = v
	}
	if v, err := stats.Max(errs); err == nil {
		out.MaxErrorRate = v
	}

	return out
}

// Log writes the summary to the diagnostic stream.
func (s Summary) Log() {
	log.WithFields(log.Fields{
		"markers":          s.Markers,
		"individuals":      s.Individuals,
		"monomorphic":      s.Monomorphic,
		"markers_no_calls": s.NoCalls,
		"discordant_calls": s.DiscordantCalls,
		"median_maf":       s.MedianMAF,
		"mean_error_rate":  s.MeanErrorRate,
		"max_error_rate":   s.MaxErrorRate,
	}).Infoln("Run summary")
}

// mafBins splits the MAF range [0, 0.5] into bins of 0.05.
const mafBins = 10

// FprintMAFHistogram draws a text histogram of the MAF of every marker with
// calls. Nothing is drawn when no marker has calls.
func FprintMAFHistogram(w io.Writer, markers []MarkerStats) error {
	mafs := lo.FilterMap(markers, func(s MarkerStats, _ int) (float64, bool) {
		return s.MAF, s.Called() > 0
	})
	if len(mafs) == 0 {
		return nil
	}

	hist := histogram.Hist(mafBins, mafs)
	if err := histogram.Fprint(w, hist, histogram.Linear(40)); err != nil {
		return pfx.Err(err)
	}

	return nil
}
