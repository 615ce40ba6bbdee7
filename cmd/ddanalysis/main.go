package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/deepdrill/drill/internal/analyzer"
	"github.com/deepdrill/drill/internal/drillmap"
)

type summaryStats struct {
	Count    int     `json:"count"`
	Mean     float64 `json:"mean"`
	Std      float64 `json:"std"`
	Min      float64 `json:"min"`
	Q1       float64 `json:"q1"`
	Median   float64 `json:"median"`
	Q3       float64 `json:"q3"`
	Max      float64 `json:"max"`
	IQR      float64 `json:"iqr"`
	Skewness float64 `json:"skewness"`
	Kurtosis float64 `json:"kurtosis_excess"`
}

// ------------------------------ stats utilities ------------------------------

func computeStats(x []float64) summaryStats {
	n := len(x)
	if n == 0 {
		return summaryStats{}
	}
	cp := append([]float64(nil), x...)
	sort.Float64s(cp)
	minv, maxv := cp[0], cp[n-1]
	median := quantileSorted(cp, 0.5)
	q1 := quantileSorted(cp, 0.25)
	q3 := quantileSorted(cp, 0.75)
	iqr := q3 - q1
	var m float64
	for _, v := range x {
		m += v
	}
	m /= float64(n)
	var m2, m3, m4 float64
	for _, v := range x {
		d := v - m
		d2 := d * d
		m2 += d2
		m3 += d2 * d
		m4 += d2 * d2
	}
	std := 0.0
	if n > 1 {
		std = math.Sqrt(m2 / float64(n-1))
	}
	var skew, kurtEx float64
	if std > 0 {
		m2n := m2 / float64(n)
		m3n := m3 / float64(n)
		m4n := m4 / float64(n)
		skew = m3n / math.Pow(m2n, 1.5)
		kurtEx = m4n/m2n/m2n - 3.0
	}
	return summaryStats{Count: n, Mean: m, Std: std, Min: minv, Q1: q1, Median: median, Q3: q3, Max: maxv, IQR: iqr, Skewness: skew, Kurtosis: kurtEx}
}

func quantileSorted(sorted []float64, p float64) float64 {
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := p * float64(len(sorted)-1)
	l := int(math.Floor(pos))
	r := int(math.Ceil(pos))
	if l == r {
		return sorted[l]
	}
	w := pos - float64(l)
	return sorted[l]*(1-w) + sorted[r]*w
}

func freedmanDiaconisBins(x []float64) int {
	n := len(x)
	if n < 2 {
		return 1
	}
	cp := append([]float64(nil), x...)
	sort.Float64s(cp)
	iqr := quantileSorted(cp, 0.75) - quantileSorted(cp, 0.25)
	if iqr == 0 {
		if n < 200 {
			return n
		}
		return 200
	}
	bw := 2 * iqr * math.Pow(float64(n), -1.0/3.0)
	if bw <= 0 {
		if n < 200 {
			return n
		}
		return 200
	}
	r := cp[n-1] - cp[0]
	k := int(math.Ceil(r / bw))
	if k < 50 {
		k = 50
	}
	if k > 2000 {
		k = 2000
	}
	return k
}

func computeHistogram(values []float64, nbins int) (edges []float64, counts []int) {
	if len(values) == 0 {
		return []float64{0, 1}, []int{0}
	}
	cp := append([]float64(nil), values...)
	sort.Float64s(cp)
	minv, maxv := cp[0], cp[len(cp)-1]
	if nbins < 1 {
		nbins = 1
	}
	width := (maxv - minv) / float64(nbins)
	if width <= 0 {
		width = 1
	}
	edges = make([]float64, nbins+1)
	for i := 0; i <= nbins; i++ {
		edges[i] = minv + float64(i)*width
	}
	counts = make([]int, nbins)
	for _, v := range values {
		idx := int(math.Floor((v - minv) / width))
		if idx < 0 {
			idx = 0
		}
		if idx >= nbins {
			idx = nbins - 1
		}
		counts[idx]++
	}
	return
}

// ------------------------- plotting: go-echarts HTML -------------------------

func toBarItems(vals []int) []opts.BarData {
	out := make([]opts.BarData, len(vals))
	for i, v := range vals {
		out[i] = opts.BarData{Value: v}
	}
	return out
}

func newHistogramChart(title string, values []float64, stats summaryStats) *charts.Bar {
	nbins := freedmanDiaconisBins(values)
	edges, counts := computeHistogram(values, nbins)
	xLabels := make([]string, nbins)
	for i := 0; i < nbins; i++ {
		center := 0.5 * (edges[i] + edges[i+1])
		xLabels[i] = fmt.Sprintf("%.2f", center)
	}
	bar := charts.NewBar()
	subtitle := fmt.Sprintf("n=%d, mean=%.3f, std=%.3f, median=%.3f, IQR=%.3f", stats.Count, stats.Mean, stats.Std, stats.Median, stats.IQR)
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "1200px", Height: "600px"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "inside"}, opts.DataZoom{Type: "slider"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(xLabels).
		AddSeries("count", toBarItems(counts)).
		SetSeriesOptions(charts.WithLabelOpts(opts.Label{Show: opts.Bool(false)}))
	return bar
}

// ------------------------------ JSON and I/O ------------------------------

func saveJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

// ------------------------------- main routine -------------------------------

func main() {
	mapPath := flag.String("m", "", "drill map to analyze (required)")
	outDir := flag.String("out", "Measure_Reports", "output directory for reports")
	depth := flag.Int("depth", 0, "iteration budget the map was drilled with (0: derive from the map)")
	flag.Parse()
	if *mapPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	m, err := drillmap.Load(*mapPath)
	if err != nil {
		log.Fatalf("load map: %v", err)
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("mkdir: %v", err)
	}

	var iterations, logNorms, normalAngles []float64
	maxLast := 0
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			e := m.Get(x, y)
			if e.Last != 0 {
				iterations = append(iterations, float64(e.Last))
				if int(e.Last) > maxLast {
					maxLast = int(e.Last)
				}
			}
			if e.LogNorm != 0 {
				logNorms = append(logNorms, e.LogNorm)
			}
			if e.Normal != 0 {
				normalAngles = append(normalAngles, math.Atan2(imag(e.Normal), real(e.Normal)))
			}
		}
	}

	if *depth == 0 {
		*depth = maxLast
	}
	analysis := analyzer.Analyze(m, *depth)
	analysis.Print(os.Stdout)
	fmt.Println()

	outStats := map[string]summaryStats{
		"iterations": computeStats(iterations),
	}
	if len(logNorms) > 0 {
		outStats["lognorms"] = computeStats(logNorms)
	}
	if len(normalAngles) > 0 {
		outStats["normal_angles"] = computeStats(normalAngles)
	}

	ts := time.Now().Format("20060102_150405")
	jsonPath := filepath.Join(*outDir, fmt.Sprintf("map_stats_%s.json", ts))
	if err := saveJSON(jsonPath, outStats); err != nil {
		log.Printf("warn: save stats: %v", err)
	}
	analysisPath := filepath.Join(*outDir, fmt.Sprintf("map_analysis_%s.json", ts))
	if err := saveJSON(analysisPath, analysis); err != nil {
		log.Printf("warn: save analysis: %v", err)
	}

	page := components.NewPage()
	add := func(name string, vals []float64) {
		if len(vals) == 0 {
			return
		}
		st := computeStats(vals)
		page.AddCharts(newHistogramChart(name, vals, st))
	}
	add("iteration counts", iterations)
	add("escape log norms", logNorms)
	add("normal angles", normalAngles)

	htmlPath := filepath.Join(*outDir, fmt.Sprintf("map_histograms_%s.html", ts))
	f, err := os.Create(htmlPath)
	if err != nil {
		log.Fatalf("create html: %v", err)
	}
	defer f.Close()
	if err := page.Render(f); err != nil {
		log.Fatalf("render html: %v", err)
	}
	fmt.Println("Histogram page:", htmlPath)
	fmt.Println("Stats JSON:", jsonPath)
}
