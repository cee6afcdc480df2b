package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Evolution metrics
	evolutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "archipelago_evolutions_total",
			Help: "Total number of algorithm evolve calls completed",
		},
		[]string{"island"},
	)

	evolutionTimeMs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "archipelago_evolution_time_ms_total",
			Help: "Cumulative wall-clock evolution time in milliseconds",
		},
		[]string{"island"},
	)

	championFitness = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "archipelago_champion_fitness",
			Help: "Current champion fitness of the island population",
		},
		[]string{"island"},
	)

	// Migration metrics
	migrantsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "archipelago_migrants_total",
			Help: "Total number of individuals moved between islands",
		},
		[]string{"direction"},
	)

	// Error metrics
	workerErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "archipelago_worker_errors_total",
			Help: "Total number of worker-side evolution failures",
		},
		[]string{"kind"},
	)
)

func init() {
	// Register metrics
	prometheus.MustRegister(evolutionsTotal)
	prometheus.MustRegister(evolutionTimeMs)
	prometheus.MustRegister(championFitness)
	prometheus.MustRegister(migrantsTotal)
	prometheus.MustRegister(workerErrorsTotal)
}

// MetricsHandler handles the Prometheus metrics endpoint.
type MetricsHandler struct{}

// NewMetricsHandler creates a new metrics handler.
func NewMetricsHandler() *MetricsHandler {
	return &MetricsHandler{}
}

// ServeHTTP serves the Prometheus metrics endpoint.
func (m *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// RecordEvolution records one completed evolve call for an island.
func RecordEvolution(island string) {
	evolutionsTotal.WithLabelValues(island).Inc()
}

// AddEvolutionTime accumulates measured worker wall-clock time.
func AddEvolutionTime(island string, ms int64) {
	if ms < 0 {
		return
	}
	evolutionTimeMs.WithLabelValues(island).Add(float64(ms))
}

// SetChampionFitness publishes the island's current champion fitness.
func SetChampionFitness(island string, fitness float64) {
	championFitness.WithLabelValues(island).Set(fitness)
}

// RecordMigrants records individuals entering or leaving an island.
func RecordMigrants(direction string, count int) {
	if count <= 0 {
		return
	}
	migrantsTotal.WithLabelValues(direction).Add(float64(count))
}

// RecordWorkerError records a worker-side evolution failure.
func RecordWorkerError(kind string) {
	workerErrorsTotal.WithLabelValues(kind).Inc()
}
