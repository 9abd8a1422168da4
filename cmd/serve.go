package cmd

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jsphweid/notegrid/constants"
	"github.com/jsphweid/notegrid/logger"
	"github.com/jsphweid/notegrid/model"
	"github.com/jsphweid/notegrid/score"
	"github.com/jsphweid/notegrid/table"
	"github.com/jsphweid/notegrid/timebase"
	"github.com/pkg/errors"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
)

// request bodies above this are rejected
const maxBodyBytes = 8 << 20

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves conversions over HTTP",
	Long:  `Serves POST /convert, which takes a CSV body and returns the score as JSON. Listens on PORT (default 8080).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := ":" + constants.GetPort()
		logger.Info("Starting server", logger.Fields{"addr": addr})
		return http.ListenAndServe(addr, NewHandler())
	},
}

func NewHandler() http.Handler {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/convert", HandleConvert).Methods("POST")
	router.HandleFunc("/health", handleHealth).Methods("GET")
	return cors.Default().Handler(router)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Could not write response", err, nil)
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func configFromQuery(r *http.Request) (model.Config, error) {
	cfg := constants.GetDefaultConfig()
	q := r.URL.Query()

	float := func(key string, dst *float64) error {
		v := q.Get(key)
		if v == "" {
			return nil
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			return errors.Errorf("%v must be a positive number", key)
		}
		*dst = f
		return nil
	}
	if err := float("bpm", &cfg.Tempo); err != nil {
		return cfg, err
	}
	if err := float("quantum", &cfg.Quantum); err != nil {
		return cfg, err
	}
	if v := q.Get("timesig"); v != "" {
		cfg.TimeSignature = v
	}
	if v := q.Get("max_notes"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return cfg, errors.New("max_notes must be a non-negative integer")
		}
		cfg.MaxRows = n
	}
	return cfg, nil
}

// HandleConvert converts the CSV request body. Malformed tables and
// parameters are the client's fault (400); anything else is a 500.
func HandleConvert(w http.ResponseWriter, r *http.Request) {
	cfg, err := configFromQuery(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
		return
	}

	t, err := table.Read(http.MaxBytesReader(w, r.Body, maxBodyBytes), cfg.MaxRows)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
		return
	}

	s, err := score.Convert(t, cfg)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Cause(err) == timebase.ErrNoTempo {
			status = http.StatusBadRequest
		}
		logger.Error("Conversion failed", err, nil)
		writeJSON(w, status, model.ErrorResponse{Error: err.Error()})
		return
	}

	id := uuid.New().String()
	logger.Info("Converted table", logger.Fields{"id": id, "parts": len(s.Parts)})
	writeJSON(w, http.StatusOK, model.ConvertResponse{ID: id, Score: s})
}
