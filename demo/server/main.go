package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	regions "github.com/tingold/orb-regions"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	configPath string
	addr       string
	input      string
	label      string
	verbose    bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "regionserve",
	Short: "Serve a region layer as FlatGeobuf and GeoJSON",
	Long: `regionserve loads a region layer from GeoJSON or FlatGeobuf, or builds
a sample of world cities, and serves it over HTTP.

Endpoints:
  /data.fgb                         the layer as FlatGeobuf
  /data.geojson                     the layer as GeoJSON
  /columns                          column identifiers, labels and kinds
  /display?target=<id>              whether the regions can be shown against a column
  /transform?axis=x&target=<id>     center values mapped onto a linked column`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runServer,
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "", "path to a YAML config file")
	rootCmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	rootCmd.Flags().StringVar(&input, "input", "", "GeoJSON or FlatGeobuf file to serve (overrides config)")
	rootCmd.Flags().StringVar(&label, "label", "", "region label for GeoJSON input (overrides config)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("addr") {
		cfg.Addr = addr
	}
	if cmd.Flags().Changed("input") {
		cfg.Input = input
	}
	if cmd.Flags().Changed("label") {
		cfg.Label = label
	}

	data, err := loadData(cfg, logger)
	if err != nil {
		return err
	}
	logger.Info("layer loaded",
		zap.String("layer", data.String()),
		zap.Int("rows", data.Rows()),
		zap.Int("columns", len(data.Columns())))

	srv, err := newServer(data, cfg, logger)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("addr", cfg.Addr))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	}
}

// server answers layer requests. The encoded payloads are built once.
type server struct {
	data    *regions.RegionData
	fgb     []byte
	geoJSON []byte
	logger  *zap.Logger
}

func newServer(data *regions.RegionData, cfg *Config, logger *zap.Logger) (*server, error) {
	opts := regions.DefaultOptions()
	opts.Name = cfg.Name

	var buf bytes.Buffer
	if err := regions.Write(&buf, data, opts); err != nil {
		return nil, fmt.Errorf("failed to create FlatGeobuf: %w", err)
	}

	fc, err := data.FeatureCollection()
	if err != nil {
		return nil, err
	}
	geoJSON, err := json.Marshal(fc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode GeoJSON: %w", err)
	}

	return &server{data: data, fgb: buf.Bytes(), geoJSON: geoJSON, logger: logger}, nil
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/data.fgb", s.handleBytes("application/octet-stream", s.fgb))
	mux.HandleFunc("/data.geojson", s.handleBytes("application/geo+json", s.geoJSON))
	mux.HandleFunc("/columns", s.handleColumns)
	mux.HandleFunc("/display", s.handleDisplay)
	mux.HandleFunc("/transform", s.handleTransform)
	return mux
}

func (s *server) handleBytes(contentType string, payload []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Access-Control-Allow-Origin", "*")
		_, _ = w.Write(payload)
	}
}

type columnInfo struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Kind   string `json:"kind"`
	Region bool   `json:"region,omitempty"`
}

func (s *server) handleColumns(w http.ResponseWriter, r *http.Request) {
	cols := s.data.Columns()
	out := make([]columnInfo, 0, len(cols))
	for _, c := range cols {
		out = append(out, columnInfo{
			ID:     c.ID.String(),
			Label:  c.Label,
			Kind:   c.Values.Kind(),
			Region: c.IsRegion(),
		})
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *server) handleDisplay(w http.ResponseWriter, r *http.Request) {
	target, ok := s.targetParam(w, r)
	if !ok {
		return
	}

	display, err := s.data.CanDisplay(target)
	if err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"target":  target.String(),
		"display": display,
	})
}

func (s *server) handleTransform(w http.ResponseWriter, r *http.Request) {
	target, ok := s.targetParam(w, r)
	if !ok {
		return
	}
	axis := regions.Axis(r.URL.Query().Get("axis"))

	fn, err := s.data.TransformTo(axis, target)
	if err != nil {
		status := http.StatusUnprocessableEntity
		if errors.Is(err, regions.ErrInvalidAxis) {
			status = http.StatusBadRequest
		}
		s.writeError(w, status, err)
		return
	}
	if fn == nil {
		s.writeJSON(w, http.StatusOK, map[string]interface{}{"available": false})
		return
	}

	values, err := s.data.CenterValues(axis)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"available": true,
		"axis":      axis,
		"values":    fn(values),
	})
}

func (s *server) targetParam(w http.ResponseWriter, r *http.Request) (regions.ColumnID, bool) {
	target, err := regions.ParseColumnID(r.URL.Query().Get("target"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid target: %w", err))
		return regions.ColumnID{}, false
	}
	return target, true
}

func (s *server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("failed to write response", zap.Error(err))
	}
}

func (s *server) writeError(w http.ResponseWriter, status int, err error) {
	s.logger.Debug("request failed", zap.Int("status", status), zap.Error(err))
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}
