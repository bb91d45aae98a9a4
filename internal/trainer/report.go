package trainer

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// Report summarizes a training run
type Report struct {
	Episodes   []EpisodeRecord
	StateCount int
	BestScore  int
	MeanScore  float64
	Wins       int
	Truncated  int
	Workers    int
	Duration   time.Duration
}

func newReport(records []EpisodeRecord, states, workers int, d time.Duration) *Report {
	r := &Report{
		Episodes:   records,
		StateCount: states,
		Workers:    workers,
		Duration:   d,
	}
	total := 0
	for _, rec := range records {
		total += rec.Score
		if rec.Score > r.BestScore {
			r.BestScore = rec.Score
		}
		if rec.Won {
			r.Wins++
		}
		if rec.Truncated {
			r.Truncated++
		}
	}
	if len(records) > 0 {
		r.MeanScore = float64(total) / float64(len(records))
	}
	return r
}

// MovingAverage returns the trailing mean score over window episodes
func (r *Report) MovingAverage(window int) []float64 {
	if window <= 0 {
		window = 1
	}
	out := make([]float64, len(r.Episodes))
	sum := 0
	for i, rec := range r.Episodes {
		sum += rec.Score
		if i >= window {
			sum -= r.Episodes[i-window].Score
		}
		n := i + 1
		if n > window {
			n = window
		}
		out[i] = float64(sum) / float64(n)
	}
	return out
}

// WriteChart renders score and exploration curves as an HTML page
func WriteChart(r *Report, w io.Writer) error {
	if len(r.Episodes) == 0 {
		return fmt.Errorf("report has no episodes to chart")
	}

	xs := make([]string, len(r.Episodes))
	scores := make([]opts.LineData, len(r.Episodes))
	epsilons := make([]opts.LineData, len(r.Episodes))
	for i, rec := range r.Episodes {
		xs[i] = strconv.Itoa(rec.Index)
		scores[i] = opts.LineData{Value: rec.Score}
		epsilons[i] = opts.LineData{Value: rec.Epsilon}
	}

	window := len(r.Episodes) / 20
	if window < 1 {
		window = 1
	}
	avg := r.MovingAverage(window)
	smoothed := make([]opts.LineData, len(avg))
	for i, v := range avg {
		smoothed[i] = opts.LineData{Value: v}
	}

	scoreChart := charts.NewLine()
	scoreChart.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Score per episode",
			Subtitle: fmt.Sprintf("best %d, mean %.2f, %d states", r.BestScore, r.MeanScore, r.StateCount),
		}),
		charts.WithInitializationOpts(opts.Initialization{Theme: "shine"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "episode"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "score"}),
	)
	scoreChart.SetXAxis(xs).
		AddSeries("score", scores).
		AddSeries(fmt.Sprintf("moving average (%d)", window), smoothed)

	epsilonChart := charts.NewLine()
	epsilonChart.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Exploration rate"}),
		charts.WithInitializationOpts(opts.Initialization{Theme: "shine"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "episode"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "epsilon"}),
	)
	epsilonChart.SetXAxis(xs).AddSeries("epsilon", epsilons)

	page := components.NewPage()
	page.AddCharts(scoreChart, epsilonChart)
	return page.Render(w)
}
