package physics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// LayoutAlpha tracks the simulation's current annealing factor
	LayoutAlpha = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "plexus_layout_alpha",
			Help: "Current annealing alpha of the layout simulation",
		},
	)

	// LayoutNodes tracks the number of registered nodes
	LayoutNodes = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "plexus_layout_nodes",
			Help: "Number of nodes registered with the layout simulation",
		},
	)

	// LayoutLinks tracks the number of resolved links
	LayoutLinks = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "plexus_layout_links",
			Help: "Number of resolved links registered with the layout simulation",
		},
	)

	// LayoutTicksTotal tracks the number of simulation steps performed
	LayoutTicksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "plexus_layout_ticks_total",
			Help: "Total number of layout simulation ticks",
		},
	)

	// LayoutReheatsTotal tracks how often the simulation was reheated
	LayoutReheatsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "plexus_layout_reheats_total",
			Help: "Total number of layout simulation reheats",
		},
	)
)

func init() {
	// Register metrics with the default registry
	prometheus.MustRegister(LayoutAlpha)
	prometheus.MustRegister(LayoutNodes)
	prometheus.MustRegister(LayoutLinks)
	prometheus.MustRegister(LayoutTicksTotal)
	prometheus.MustRegister(LayoutReheatsTotal)
}
