package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/schema"
	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/put-screener/src/export"
	"github.com/jiaming2012/put-screener/src/models"
	"github.com/jiaming2012/put-screener/src/screener"
)

var (
	screenerSvc *screener.Screener
	decoder     = schema.NewDecoder()
)

type errorDTO struct {
	Msg string `json:"msg"`
}

func respondJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Errorf("respondJSON: failed to encode payload: %v", err)
	}
}

func respondError(w http.ResponseWriter, statusCode int, err error) {
	log.Error(err)
	respondJSON(w, statusCode, errorDTO{Msg: err.Error()})
}

func decodeScreenRequest(r *http.Request) (*models.ScreenRequest, error) {
	if err := r.ParseForm(); err != nil {
		return nil, err
	}

	req := &models.ScreenRequest{}
	if err := decoder.Decode(req, r.Form); err != nil {
		return nil, err
	}

	return req, nil
}

func runScreen(r *http.Request) (*models.ScreenResult, int, error) {
	req, err := decodeScreenRequest(r)
	if err != nil {
		return nil, http.StatusBadRequest, err
	}

	tickers, err := req.ParseTickers()
	if err != nil {
		return nil, http.StatusBadRequest, err
	}

	params := req.ToParams()
	if err := params.Validate(); err != nil {
		return nil, http.StatusBadRequest, err
	}

	result, err := screenerSvc.Run(r.Context(), tickers, params)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}

	return result, http.StatusOK, nil
}

func screenHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(404)
		return
	}

	result, statusCode, err := runScreen(r)
	if err != nil {
		respondError(w, statusCode, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func screenCSVHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(404)
		return
	}

	result, statusCode, err := runScreen(r)
	if err != nil {
		respondError(w, statusCode, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="put_candidates.csv"`)

	if err := export.WriteCandidatesCSV(w, result.Candidates); err != nil {
		log.Errorf("screenCSVHandler: %v", err)
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func SetupHandler(router *mux.Router, svc *screener.Screener) {
	screenerSvc = svc

	decoder.IgnoreUnknownKeys(true)

	router.HandleFunc("", screenHandler)
	router.HandleFunc("/csv", screenCSVHandler)
	router.HandleFunc("/health", healthHandler)
}
