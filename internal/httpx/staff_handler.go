package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bekzodm/oshxona/internal/orders"
	"github.com/bekzodm/oshxona/internal/staff"
)

type StaffHandler struct {
	Repo      *staff.Repo
	JWTSecret []byte
}

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResp struct {
	Token string      `json:"token"`
	Role  orders.Role `json:"role"`
}

type createStaffReq struct {
	Username string      `json:"username"`
	Password string      `json:"password"`
	Role     orders.Role `json:"role"`
}

type availabilityReq struct {
	Available bool `json:"available"`
}

func (h *StaffHandler) Register(r *chi.Mux, auth *Auth) {
	r.Post("/staff/login", h.login)

	r.Group(func(r chi.Router) {
		r.Use(auth.Require(orders.RoleAdmin))
		r.Post("/admin/staff", h.createStaff)
	})
	r.Group(func(r chi.Router) {
		r.Use(auth.Require())
		r.Put("/staff/availability", h.setAvailability)
	})
}

func (h *StaffHandler) login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errBody("invalid json"))
		return
	}
	st, err := h.Repo.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	token, err := staff.IssueToken(h.JWTSecret, st)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResp{Token: token, Role: st.Role})
}

func (h *StaffHandler) createStaff(w http.ResponseWriter, r *http.Request) {
	var req createStaffReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errBody("invalid json"))
		return
	}
	if req.Username == "" || len(req.Password) < 8 {
		writeJSON(w, http.StatusBadRequest, errBody("username and a password of 8+ chars required"))
		return
	}
	st, err := h.Repo.Create(r.Context(), req.Username, req.Password, req.Role)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, st)
}

func (h *StaffHandler) setAvailability(w http.ResponseWriter, r *http.Request) {
	actor, ok := staff.ActorFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errBody("no actor"))
		return
	}
	var req availabilityReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errBody("invalid json"))
		return
	}
	if err := h.Repo.SetAvailable(r.Context(), actor.ID, req.Available); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
