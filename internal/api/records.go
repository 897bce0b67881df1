package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"example.com/healthtrack/internal/auth"
	"example.com/healthtrack/internal/domain"
)

// tokenOf pulls the session token out of the context, answering 401
// itself when absent (e.g. a handler invoked without the middleware).
func tokenOf(w http.ResponseWriter, r *http.Request) (string, bool) {
	token, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Missing or invalid Authorization token")
	}
	return token, ok
}

// pathIndex parses the trailing 0-based index of e.g. /waters/3.
func pathIndex(path, prefix string) (int, bool) {
	raw := strings.TrimPrefix(path, prefix)
	index, err := strconv.Atoi(raw)
	if err != nil || index < 0 {
		return 0, false
	}
	return index, true
}

// ---------- Waters ----------

type waterView struct {
	ID       string  `json:"id"`
	Datetime string  `json:"datetime"`
	AmountMl float64 `json:"amountMl"`
}

func (h *Handler) waters(w http.ResponseWriter, r *http.Request) {
	token, ok := tokenOf(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodPost:
		var req struct {
			Datetime *string  `json:"datetime"`
			AmountMl *float64 `json:"amountMl"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
			return
		}
		if req.Datetime == nil || req.AmountMl == nil {
			writeError(w, http.StatusBadRequest, "Missing datetime or amountMl")
			return
		}
		record := domain.WaterRecord{Datetime: *req.Datetime, AmountMl: *req.AmountMl}
		index, err := h.store.AddWater(token, record)
		if err != nil {
			writeStoreError(w, err, "User not found")
			return
		}
		writeJSON(w, http.StatusCreated, waterView{
			ID:       strconv.Itoa(index),
			Datetime: record.Datetime,
			AmountMl: record.AmountMl,
		})
	case http.MethodGet:
		records, err := h.store.Waters(token)
		if err != nil {
			writeStoreError(w, err, "User not found")
			return
		}
		views := make([]waterView, 0, len(records))
		for i, rec := range records {
			views = append(views, waterView{
				ID:       strconv.Itoa(i),
				Datetime: rec.Datetime,
				AmountMl: rec.AmountMl,
			})
		}
		writeJSON(w, http.StatusOK, views)
	default:
		writeError(w, http.StatusMethodNotAllowed, "unsupported method")
	}
}

func (h *Handler) waterByID(w http.ResponseWriter, r *http.Request) {
	token, ok := tokenOf(w, r)
	if !ok {
		return
	}
	index, ok := pathIndex(r.URL.Path, "/waters/")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid water id")
		return
	}

	switch r.Method {
	case http.MethodPatch:
		var req struct {
			Datetime *string  `json:"datetime"`
			AmountMl *float64 `json:"amountMl"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
			return
		}

		records, err := h.store.Waters(token)
		if err != nil {
			writeStoreError(w, err, "Record not found")
			return
		}
		if index >= len(records) {
			writeError(w, http.StatusNotFound, "Record not found")
			return
		}

		record := records[index]
		if req.Datetime != nil {
			record.Datetime = *req.Datetime
		}
		if req.AmountMl != nil {
			record.AmountMl = *req.AmountMl
		}
		if err := h.store.UpdateWater(token, index, record); err != nil {
			writeStoreError(w, err, "Record not found")
			return
		}
		writeJSON(w, http.StatusOK, waterView{
			ID:       strconv.Itoa(index),
			Datetime: record.Datetime,
			AmountMl: record.AmountMl,
		})
	case http.MethodDelete:
		if err := h.store.DeleteWater(token, index); err != nil {
			writeStoreError(w, err, "Record not found")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		writeError(w, http.StatusMethodNotAllowed, "unsupported method")
	}
}

// ---------- Sleeps ----------

type sleepView struct {
	ID       string  `json:"id"`
	Datetime string  `json:"datetime"`
	Hours    float64 `json:"hours"`
}

func (h *Handler) sleeps(w http.ResponseWriter, r *http.Request) {
	token, ok := tokenOf(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodPost:
		var req struct {
			Datetime *string  `json:"datetime"`
			Hours    *float64 `json:"hours"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
			return
		}
		if req.Datetime == nil || req.Hours == nil {
			writeError(w, http.StatusBadRequest, "Missing datetime or hours")
			return
		}
		record := domain.SleepRecord{Datetime: *req.Datetime, Hours: *req.Hours}
		index, err := h.store.AddSleep(token, record)
		if err != nil {
			writeStoreError(w, err, "User not found")
			return
		}
		writeJSON(w, http.StatusCreated, sleepView{
			ID:       strconv.Itoa(index),
			Datetime: record.Datetime,
			Hours:    record.Hours,
		})
	case http.MethodGet:
		records, err := h.store.Sleeps(token)
		if err != nil {
			writeStoreError(w, err, "User not found")
			return
		}
		views := make([]sleepView, 0, len(records))
		for i, rec := range records {
			views = append(views, sleepView{
				ID:       strconv.Itoa(i),
				Datetime: rec.Datetime,
				Hours:    rec.Hours,
			})
		}
		writeJSON(w, http.StatusOK, views)
	default:
		writeError(w, http.StatusMethodNotAllowed, "unsupported method")
	}
}

func (h *Handler) sleepByID(w http.ResponseWriter, r *http.Request) {
	token, ok := tokenOf(w, r)
	if !ok {
		return
	}
	index, ok := pathIndex(r.URL.Path, "/sleeps/")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid sleep id")
		return
	}

	switch r.Method {
	case http.MethodPatch:
		var req struct {
			Datetime *string  `json:"datetime"`
			Hours    *float64 `json:"hours"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
			return
		}

		records, err := h.store.Sleeps(token)
		if err != nil {
			writeStoreError(w, err, "Record not found")
			return
		}
		if index >= len(records) {
			writeError(w, http.StatusNotFound, "Record not found")
			return
		}

		record := records[index]
		if req.Datetime != nil {
			record.Datetime = *req.Datetime
		}
		if req.Hours != nil {
			record.Hours = *req.Hours
		}
		if err := h.store.UpdateSleep(token, index, record); err != nil {
			writeStoreError(w, err, "Record not found")
			return
		}
		writeJSON(w, http.StatusOK, sleepView{
			ID:       strconv.Itoa(index),
			Datetime: record.Datetime,
			Hours:    record.Hours,
		})
	case http.MethodDelete:
		if err := h.store.DeleteSleep(token, index); err != nil {
			writeStoreError(w, err, "Record not found")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		writeError(w, http.StatusMethodNotAllowed, "unsupported method")
	}
}

// ---------- Activities ----------

type activityView struct {
	ID        string `json:"id"`
	Datetime  string `json:"datetime"`
	Minutes   int    `json:"minutes"`
	Intensity string `json:"intensity"`
}

func (h *Handler) activitiesRoot(w http.ResponseWriter, r *http.Request) {
	token, ok := tokenOf(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodPost:
		var req struct {
			Datetime  *string `json:"datetime"`
			Minutes   *int    `json:"minutes"`
			Intensity *string `json:"intensity"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
			return
		}
		if req.Datetime == nil || req.Minutes == nil || req.Intensity == nil {
			writeError(w, http.StatusBadRequest, "Missing datetime, minutes or intensity")
			return
		}
		record := domain.ActivityRecord{
			Datetime:  *req.Datetime,
			Minutes:   *req.Minutes,
			Intensity: *req.Intensity,
		}
		index, err := h.store.AddActivity(token, record)
		if err != nil {
			writeStoreError(w, err, "User not found")
			return
		}
		writeJSON(w, http.StatusCreated, activityView{
			ID:        strconv.Itoa(index),
			Datetime:  record.Datetime,
			Minutes:   record.Minutes,
			Intensity: record.Intensity,
		})
	case http.MethodGet:
		records, err := h.store.Activities(token)
		if err != nil {
			writeStoreError(w, err, "User not found")
			return
		}
		views := make([]activityView, 0, len(records))
		for i, rec := range records {
			views = append(views, activityView{
				ID:        strconv.Itoa(i),
				Datetime:  rec.Datetime,
				Minutes:   rec.Minutes,
				Intensity: rec.Intensity,
			})
		}
		writeJSON(w, http.StatusOK, views)
	default:
		writeError(w, http.StatusMethodNotAllowed, "unsupported method")
	}
}

func (h *Handler) activityByID(w http.ResponseWriter, r *http.Request) {
	token, ok := tokenOf(w, r)
	if !ok {
		return
	}
	index, ok := pathIndex(r.URL.Path, "/activities/")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid activity id")
		return
	}

	switch r.Method {
	case http.MethodPatch:
		var req struct {
			Datetime  *string `json:"datetime"`
			Minutes   *int    `json:"minutes"`
			Intensity *string `json:"intensity"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
			return
		}

		records, err := h.store.Activities(token)
		if err != nil {
			writeStoreError(w, err, "Record not found")
			return
		}
		if index >= len(records) {
			writeError(w, http.StatusNotFound, "Record not found")
			return
		}

		record := records[index]
		if req.Datetime != nil {
			record.Datetime = *req.Datetime
		}
		if req.Minutes != nil {
			record.Minutes = *req.Minutes
		}
		if req.Intensity != nil {
			record.Intensity = *req.Intensity
		}
		if err := h.store.UpdateActivity(token, index, record); err != nil {
			writeStoreError(w, err, "Record not found")
			return
		}
		writeJSON(w, http.StatusOK, activityView{
			ID:        strconv.Itoa(index),
			Datetime:  record.Datetime,
			Minutes:   record.Minutes,
			Intensity: record.Intensity,
		})
	case http.MethodDelete:
		if err := h.store.DeleteActivity(token, index); err != nil {
			writeStoreError(w, err, "Record not found")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		writeError(w, http.StatusMethodNotAllowed, "unsupported method")
	}
}
