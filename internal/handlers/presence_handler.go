package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/statusarea/presenced/internal/models"
	"github.com/statusarea/presenced/internal/repositories"
	"github.com/statusarea/presenced/internal/services"
)

// PresenceHandler exposes the aggregator over the local control API.
type PresenceHandler struct {
	aggregator *services.Aggregator
}

func NewPresenceHandler(aggregator *services.Aggregator) *PresenceHandler {
	return &PresenceHandler{aggregator: aggregator}
}

// RegisterRoutes mounts the control API on the router.
func (h *PresenceHandler) RegisterRoutes(r chi.Router) {
	r.Get("/presence", h.GetPresence)
	r.Get("/accounts", h.ListAccounts)
	r.Get("/profiles", h.ListProfiles)
	r.Post("/profiles", h.SaveProfile)
	r.Delete("/profiles/{name}", h.DeleteProfile)
	r.Post("/profiles/{name}/activate", h.ActivateProfile)
	r.Post("/profiles/{name}/scan", h.ScanProfile)
	r.Put("/message", h.SetMessage)
	r.Put("/location-level", h.SetLocationLevel)
}

type profileResponse struct {
	Name                   string            `json:"name"`
	DisplayName            string            `json:"display_name"`
	Icon                   string            `json:"icon"`
	IconError              string            `json:"icon_error"`
	Builtin                bool              `json:"builtin"`
	DefaultPresence        string            `json:"default_presence"`
	DefaultPresenceDisplay string            `json:"default_presence_display,omitempty"`
	Accounts               map[string]string `json:"accounts,omitempty"`
	Active                 bool              `json:"active"`
}

type profileRequest struct {
	Name            string            `json:"name"`
	Icon            string            `json:"icon"`
	DefaultPresence string            `json:"default_presence"`
	Accounts        map[string]string `json:"accounts"`
}

type messageRequest struct {
	Message string `json:"message"`
}

type locationLevelRequest struct {
	Level models.LocationLevel `json:"level"`
}

type scanResponse struct {
	PresenceType models.PresenceType `json:"presence_type"`
	AnyOnline    bool                `json:"any_online"`
}

func (h *PresenceHandler) GetPresence(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.aggregator.GlobalPresence())
}

func (h *PresenceHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.aggregator.AccountsSnapshot())
}

func (h *PresenceHandler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	views := h.aggregator.ProfileViews()

	out := make([]profileResponse, 0, len(views))
	for _, v := range views {
		out = append(out, profileResponse{
			Name:                   v.Name,
			DisplayName:            v.DisplayName,
			Icon:                   v.IconBase,
			IconError:              v.IconError,
			Builtin:                v.Builtin,
			DefaultPresence:        v.DefaultPresence,
			DefaultPresenceDisplay: models.KeywordDisplayName(v.DefaultPresence),
			Accounts:               v.Accounts,
			Active:                 v.Active,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// SaveProfile creates a profile, or updates the one whose display name
// matches the request. The handler only decodes; the aggregator applies the
// fields on its loop.
func (h *PresenceHandler) SaveProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.aggregator.ApplyProfileUpdate(services.ProfileUpdate{
		Name:            req.Name,
		Icon:            req.Icon,
		DefaultPresence: req.DefaultPresence,
		Accounts:        req.Accounts,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, map[string]string{"name": req.Name})
}

func (h *PresenceHandler) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	profile := h.aggregator.FindProfile(chi.URLParam(r, "name"))
	if profile == nil {
		writeError(w, http.StatusNotFound, "profile not found")
		return
	}
	if err := h.aggregator.DeleteProfile(profile); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PresenceHandler) ActivateProfile(w http.ResponseWriter, r *http.Request) {
	profile := h.aggregator.FindProfile(chi.URLParam(r, "name"))
	if profile == nil {
		writeError(w, http.StatusNotFound, "profile not found")
		return
	}
	if err := h.aggregator.ActivateProfile(profile); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"active": chi.URLParam(r, "name")})
}

// ScanProfile previews what activating the named profile would do, without
// applying it.
func (h *PresenceHandler) ScanProfile(w http.ResponseWriter, r *http.Request) {
	profile := h.aggregator.FindProfile(chi.URLParam(r, "name"))
	if profile == nil {
		writeError(w, http.StatusNotFound, "profile not found")
		return
	}
	aggregate, anyOnline := h.aggregator.ScanProfile(profile)
	writeJSON(w, http.StatusOK, scanResponse{PresenceType: aggregate, AnyOnline: anyOnline})
}

func (h *PresenceHandler) SetMessage(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.aggregator.SetPresenceMessage(req.Message); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": h.aggregator.PresenceMessage()})
}

func (h *PresenceHandler) SetLocationLevel(w http.ResponseWriter, r *http.Request) {
	var req locationLevelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !req.Level.Valid() {
		writeError(w, http.StatusBadRequest, "invalid location level")
		return
	}
	if err := h.aggregator.SetLocationLevel(req.Level); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"level": int(req.Level)})
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrBuiltinProfile):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrDuplicateName), errors.Is(err, services.ErrEmptyName):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, repositories.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
