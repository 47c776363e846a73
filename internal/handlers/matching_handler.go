package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/vishnu6512/Guardian-Grid/internal/geo"
	"github.com/vishnu6512/Guardian-Grid/internal/services"
	"github.com/vishnu6512/Guardian-Grid/pkg/utils"
)

type MatchingHandler struct {
	Service *services.MatchingService
	Places  *geo.PlacesClient
}

func NewMatchingHandler(s *services.MatchingService, places *geo.PlacesClient) *MatchingHandler {
	return &MatchingHandler{Service: s, Places: places}
}

// NearbyVolunteers ranks approved volunteers by proximity to a request.
// An empty list means nobody with coordinates is available, not an error.
func (h *MatchingHandler) NearbyVolunteers(w http.ResponseWriter, r *http.Request) {
	requestID, err := strconv.Atoi(mux.Vars(r)["afiId"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request id")
		return
	}

	ranked, err := h.Service.FindCandidates(r.Context(), requestID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, ranked)
}

// NearbyEmergencyServices surfaces hospitals, police stations and fire
// stations around a point. types is a pipe-separated list.
func (h *MatchingHandler) NearbyEmergencyServices(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	lat, err := strconv.ParseFloat(vars["lat"], 64)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid latitude")
		return
	}
	lng, err := strconv.ParseFloat(vars["lng"], 64)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid longitude")
		return
	}

	places, err := h.Places.NearbyServices(r.Context(), lat, lng, vars["types"])
	if err != nil {
		utils.Error(w, http.StatusBadGateway, "Nearby services lookup failed")
		return
	}
	utils.JSON(w, http.StatusOK, places)
}
