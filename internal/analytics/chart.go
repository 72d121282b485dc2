package analytics

import (
	"sync"

	"github.com/DhananjayDev21/task-management-system/internal/models"
)

// StatusSeries returns parallel label and count slices in the order of statuses.
func StatusSeries(statuses []models.Status, tasks []models.Task) ([]string, []int) {
	counts := Count(tasks).Status
	labels := make([]string, len(statuses))
	series := make([]int, len(statuses))
	for i, status := range statuses {
		labels[i] = string(status)
		series[i] = counts.Get(status)
	}
	return labels, series
}

type ChartLegend struct {
	Position string `json:"position"`
	OffsetY  int    `json:"offsetY"`
}

type ChartResponsive struct {
	Breakpoint int         `json:"breakpoint"`
	Width      int         `json:"width"`
	Legend     ChartLegend `json:"legend"`
}

// ChartConfig is everything a donut renderer needs on first draw.
type ChartConfig struct {
	Type       string            `json:"type"`
	Height     int               `json:"height"`
	Title      string            `json:"title"`
	Labels     []string          `json:"labels"`
	Series     []int             `json:"series"`
	Legend     ChartLegend       `json:"legend"`
	Responsive []ChartResponsive `json:"responsive"`
	DataLabels bool              `json:"dataLabels"`
	TotalLabel string            `json:"totalLabel"`
	Total      int               `json:"total"`
}

func NewChartConfig(labels []string, series []int) *ChartConfig {
	cfg := &ChartConfig{
		Type:   "donut",
		Height: 280,
		Title:  "Tasks by Status",
		Labels: labels,
		Legend: ChartLegend{Position: "right"},
		Responsive: []ChartResponsive{
			{Breakpoint: 480, Width: 300, Legend: ChartLegend{Position: "bottom"}},
		},
		DataLabels: true,
		TotalLabel: "Total Tasks",
	}
	cfg.setSeries(series)
	return cfg
}

func (c *ChartConfig) setSeries(series []int) {
	c.Series = series
	c.Total = 0
	for _, v := range series {
		c.Total += v
	}
}

// Chart keeps the configuration between renders so later renders only swap
// the series.
type Chart struct {
	mu      sync.Mutex
	config  *ChartConfig
	renders int
}

// Render builds the full configuration on first use and updates the series after.
func (c *Chart) Render(statuses []models.Status, tasks []models.Task) ChartConfig {
	labels, series := StatusSeries(statuses, tasks)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.config == nil || !sameLabels(c.config.Labels, labels) {
		c.config = NewChartConfig(labels, series)
	} else {
		c.config.setSeries(series)
	}
	c.renders++
	return *c.config
}

// Renders reports how many times the chart was drawn.
func (c *Chart) Renders() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.renders
}

func sameLabels(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
