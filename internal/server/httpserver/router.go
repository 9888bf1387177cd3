package httpserver

import (
	"net/http"
	"time"

	"github.com/sugawarayuuta/sonnet"

	"github.com/yndnr/countmesh/internal/storage/shardset"
	"github.com/yndnr/countmesh/internal/telemetry/logger"
)

// OccupancySource reports per-shard fill levels.
type OccupancySource interface {
	Occupancy() []shardset.ShardStat
}

// RouterConfig holds configuration for the HTTP router.
type RouterConfig struct {
	// Metrics serves /metrics. Nil disables the route.
	Metrics http.Handler

	// Shards backs /shards. Nil disables the route.
	Shards OccupancySource

	// Logger for request logging.
	Logger logger.Logger
}

// NewRouter creates the router with all routes and middleware.
func NewRouter(cfg *RouterConfig) http.Handler {
	if cfg == nil {
		cfg = &RouterConfig{}
	}
	log := cfg.Logger
	if log == nil {
		log = logger.Default()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	})
	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", cfg.Metrics)
	}
	if cfg.Shards != nil {
		src := cfg.Shards
		mux.HandleFunc("GET /shards", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, src.Occupancy())
		})
	}

	return Chain(mux, Recover(log), AccessLog(log))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	b, err := sonnet.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(b)
}
