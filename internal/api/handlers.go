package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/lox/meteorlog/internal/astro"
	"github.com/lox/meteorlog/internal/catalog"
	"github.com/lox/meteorlog/internal/journal"
	"github.com/lox/meteorlog/internal/models"
	"github.com/lox/meteorlog/internal/notify"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListObservations(w http.ResponseWriter, r *http.Request) {
	observations := s.journal.Observations()
	if observations == nil {
		observations = []models.Observation{}
	}
	writeJSON(w, http.StatusOK, observations)
}

func (s *Server) handleCreateObservation(w http.ResponseWriter, r *http.Request) {
	var obs models.Observation
	if err := json.NewDecoder(r.Body).Decode(&obs); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	// Ids are server-assigned on create.
	obs.ID = ""

	saved, err := s.journal.Save(obs)
	if err != nil {
		if errors.Is(err, journal.ErrInvalidObservation) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (s *Server) handleGetObservation(w http.ResponseWriter, r *http.Request) {
	obs, err := s.journal.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if obs == nil {
		writeError(w, http.StatusNotFound, "observation not found")
		return
	}
	writeJSON(w, http.StatusOK, obs)
}

func (s *Server) handleUpdateObservation(w http.ResponseWriter, r *http.Request) {
	var obs models.Observation
	if err := json.NewDecoder(r.Body).Decode(&obs); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	obs.ID = r.PathValue("id")

	saved, err := s.journal.Save(obs)
	if err != nil {
		if errors.Is(err, journal.ErrInvalidObservation) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (s *Server) handleDeleteObservation(w http.ResponseWriter, r *http.Request) {
	if err := s.journal.Delete(r.PathValue("id")); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.journal.Stats(time.Now()))
}

// handleListShowers returns catalog entries, optionally filtered to those
// active on a date (?date=2025-08-12), visible from a location
// (?lat=&lon=), or meeting a minimum ZHR (?minZhr=).
func (s *Server) handleListShowers(w http.ResponseWriter, r *http.Request) {
	showers := s.catalog.All()

	if dateStr := r.URL.Query().Get("date"); dateStr != "" {
		date, err := time.ParseInLocation("2006-01-02", dateStr, s.loc)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date: "+err.Error())
			return
		}
		showers = s.catalog.ActiveOn(date)
	}

	if minStr := r.URL.Query().Get("minZhr"); minStr != "" {
		min, err := strconv.Atoi(minStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid minZhr: "+err.Error())
			return
		}
		filtered := showers[:0]
		for _, sh := range showers {
			if sh.ZHR >= min {
				filtered = append(filtered, sh)
			}
		}
		showers = filtered
	}

	if r.URL.Query().Has("lat") {
		loc, err := parseLocation(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		filtered := showers[:0]
		for _, sh := range showers {
			if astro.IsVisible(sh, loc) {
				filtered = append(filtered, sh)
			}
		}
		showers = filtered
	}

	if showers == nil {
		showers = []catalog.Shower{}
	}
	writeJSON(w, http.StatusOK, showers)
}

func (s *Server) handleGetShower(w http.ResponseWriter, r *http.Request) {
	shower, ok := s.catalog.ByID(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "shower not found")
		return
	}
	writeJSON(w, http.StatusOK, shower)
}

type conditionsResponse struct {
	Shower     string                   `json:"shower"`
	Date       string                   `json:"date"`
	Visible    bool                     `json:"visible"`
	Conditions models.ViewingConditions `json:"conditions"`
}

func (s *Server) handleConditions(w http.ResponseWriter, r *http.Request) {
	shower, ok := s.catalog.ByID(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "shower not found")
		return
	}

	loc, err := parseLocation(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	date := time.Now().In(s.loc)
	if dateStr := r.URL.Query().Get("date"); dateStr != "" {
		date, err = time.ParseInLocation("2006-01-02", dateStr, s.loc)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date: "+err.Error())
			return
		}
	}

	writeJSON(w, http.StatusOK, conditionsResponse{
		Shower:     shower.ID,
		Date:       date.Format("2006-01-02"),
		Visible:    astro.IsVisible(shower, loc),
		Conditions: astro.ViewingConditions(shower, loc, date),
	})
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.journal.Settings())
}

func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	var settings models.NotificationSettings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if err := s.journal.SaveSettings(settings); err != nil {
		if errors.Is(err, journal.ErrInvalidSettings) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	plan, err := s.planner.Plan(s.journal.Settings(), time.Now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if plan == nil {
		plan = []notify.Reminder{}
	}
	writeJSON(w, http.StatusOK, plan)
}

func parseLocation(r *http.Request) (models.Location, error) {
	lat, err := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	if err != nil {
		return models.Location{}, errors.New("invalid or missing lat")
	}
	lon, err := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if err != nil {
		return models.Location{}, errors.New("invalid or missing lon")
	}
	return models.Location{
		Latitude:  lat,
		Longitude: lon,
		Timezone:  r.URL.Query().Get("tz"),
	}, nil
}
