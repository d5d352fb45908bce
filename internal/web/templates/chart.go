package templates

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/JonMunkholm/chemlab/internal/core"
)

const (
	chartWidth    = 600
	chartHeight   = 240
	chartPadding  = 40
	chartBaseline = chartHeight - chartPadding
)

var chartViewBox = fmt.Sprintf("0 0 %d %d", chartWidth, chartHeight)

// chartSeries splits points into the two plotted series and the scale top
// for the experiment counts.
func chartSeries(points []core.AnalyticsPoint) (experiments, success []int, top int) {
	top = 1
	experiments = make([]int, len(points))
	success = make([]int, len(points))
	for i, p := range points {
		experiments[i] = p.Experiments
		success[i] = p.SuccessRate
		top = max(top, p.Experiments)
	}
	return experiments, success, top
}

// chartX spreads n points evenly across the plot area.
func chartX(i, n int) int {
	span := chartWidth - 2*chartPadding
	if n < 2 {
		return chartPadding + span/2
	}
	return chartPadding + i*span/(n-1)
}

// polyline scales values against top and returns SVG points.
func polyline(values []int, top int) string {
	plot := chartHeight - 2*chartPadding
	var b strings.Builder
	for i, v := range values {
		v = min(max(v, 0), top)
		y := chartBaseline - v*plot/top
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strconv.Itoa(chartX(i, len(values))))
		b.WriteByte(',')
		b.WriteString(strconv.Itoa(y))
	}
	return b.String()
}
