// ABOUTME: HTTP test server exposing the rulings API contract over a chi router.
// ABOUTME: Errors go out as a JSON array of strings, matching the production error shape.
package apitest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vtes-biased/rulings-website/rulings"
)

// Server wraps an Index behind the HTTP contract the production API serves.
// Use it with httptest.NewServer in client and editor tests.
type Server struct {
	router chi.Router
	index  *Index
}

// NewServer builds a server around the given index.
func NewServer(index *Index) *Server {
	s := &Server{index: index}

	r := chi.NewRouter()

	r.Get("/card/{uid}", s.handleCardPage)
	r.Get("/group/{uid}", s.handleGroupPage)

	r.Post("/ruling/{target}", s.handleCreateRuling)
	r.Put("/ruling/{target}/{uid}", s.handleUpdateRuling)
	r.Delete("/ruling/{target}/{uid}", s.handleDeleteRuling)
	r.Post("/ruling/{target}/{uid}/restore", s.handleRestoreRuling)

	r.Post("/group", s.handleCreateGroup)
	r.Put("/group/{uid}", s.handleUpdateGroup)
	r.Delete("/group/{uid}", s.handleDeleteGroup)
	r.Post("/group/{uid}/restore", s.handleRestoreGroup)
	r.Post("/group/{uid}/restore/{cardUid}", s.handleRestoreGroupCard)

	r.Post("/reference", s.handleCreateReference)
	r.Post("/reference/search", s.handleSearchReference)
	r.Get("/check-references", s.handleCheckReferences)
	r.Get("/check-consistency", s.handleCheckConsistency)

	r.Post("/proposal", s.handleStartProposal)
	r.Put("/proposal", s.handleUpdateProposal)
	r.Post("/proposal/submit", s.handleSubmitProposal)
	r.Post("/proposal/approve", s.handleApproveProposal)
	r.Get("/proposal/{uid}", s.handleGetProposal)
	r.Get("/complete/", s.handleComplete)

	s.router = r
	return s
}

// ServeHTTP implements http.Handler, delegating to the chi router.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError serializes an error as the contract's JSON array of strings.
func writeError(w http.ResponseWriter, err error) {
	var apiErr *apiError
	if errors.As(err, &apiErr) {
		writeJSON(w, apiErr.status, apiErr.messages)
		return
	}
	writeJSON(w, http.StatusInternalServerError, []string{err.Error()})
}

// writeEmpty answers with an empty JSON object, the "entity gone" signal.
func writeEmpty(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, struct{}{})
}

type textPayload struct {
	Text string `json:"text"`
}

func decodeJSON(r *http.Request, out any) error {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		return errf(400, "invalid payload: %s", err)
	}
	return nil
}

func (s *Server) handleCreateRuling(w http.ResponseWriter, r *http.Request) {
	var payload textPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}
	ruling, err := s.index.CreateRuling(chi.URLParam(r, "target"), payload.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ruling)
}

func (s *Server) handleUpdateRuling(w http.ResponseWriter, r *http.Request) {
	var payload textPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}
	ruling, err := s.index.UpsertRuling(chi.URLParam(r, "target"), chi.URLParam(r, "uid"), payload.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ruling)
}

func (s *Server) handleDeleteRuling(w http.ResponseWriter, r *http.Request) {
	ruling, err := s.index.DeleteRuling(chi.URLParam(r, "target"), chi.URLParam(r, "uid"))
	if err != nil {
		writeError(w, err)
		return
	}
	if ruling == nil {
		writeEmpty(w)
		return
	}
	writeJSON(w, http.StatusOK, ruling)
}

func (s *Server) handleRestoreRuling(w http.ResponseWriter, r *http.Request) {
	ruling, err := s.index.RestoreRuling(chi.URLParam(r, "target"), chi.URLParam(r, "uid"))
	if err != nil {
		writeError(w, err)
		return
	}
	if ruling == nil {
		writeEmpty(w)
		return
	}
	writeJSON(w, http.StatusOK, ruling)
}

type groupPayload struct {
	Name  string            `json:"name"`
	Cards map[string]string `json:"cards"`
}

func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var payload groupPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}
	g, err := s.index.CreateGroup(payload.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (s *Server) handleUpdateGroup(w http.ResponseWriter, r *http.Request) {
	var payload groupPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}
	g, err := s.index.UpsertGroup(chi.URLParam(r, "uid"), payload.Name, payload.Cards)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (s *Server) handleDeleteGroup(w http.ResponseWriter, r *http.Request) {
	g, err := s.index.DeleteGroup(chi.URLParam(r, "uid"))
	if err != nil {
		writeError(w, err)
		return
	}
	if g == nil {
		writeEmpty(w)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (s *Server) handleRestoreGroup(w http.ResponseWriter, r *http.Request) {
	g, err := s.index.RestoreGroup(chi.URLParam(r, "uid"))
	if err != nil {
		writeError(w, err)
		return
	}
	if g == nil {
		writeEmpty(w)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (s *Server) handleRestoreGroupCard(w http.ResponseWriter, r *http.Request) {
	g, err := s.index.RestoreGroupCard(chi.URLParam(r, "uid"), chi.URLParam(r, "cardUid"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (s *Server) handleCreateReference(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, errf(400, "invalid form: %s", err))
		return
	}
	ref, err := s.index.InsertReference(r.FormValue("uid"), r.FormValue("url"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ref)
}

func (s *Server) handleSearchReference(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, errf(400, "invalid form: %s", err))
		return
	}
	ref, computed, err := s.index.SearchReference(r.FormValue("uid"), r.FormValue("url"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		ComputedUID string             `json:"computed_uid,omitempty"`
		Reference   *rulings.Reference `json:"reference,omitempty"`
	}{ComputedUID: computed, Reference: ref})
}

func (s *Server) handleCheckReferences(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.index.CheckReferences())
}

func (s *Server) handleCheckConsistency(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.index.CheckConsistency())
}

func (s *Server) handleStartProposal(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, errf(400, "invalid form: %s", err))
		return
	}
	p, err := s.index.StartProposal(r.FormValue("name"), r.FormValue("description"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

type proposalPayload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s *Server) handleUpdateProposal(w http.ResponseWriter, r *http.Request) {
	var payload proposalPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}
	if err := s.index.UpdateProposal(payload.Name, payload.Description); err != nil {
		writeError(w, err)
		return
	}
	writeEmpty(w)
}

func (s *Server) handleSubmitProposal(w http.ResponseWriter, r *http.Request) {
	var payload proposalPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}
	if err := s.index.SubmitProposal(payload.Name, payload.Description); err != nil {
		writeError(w, err)
		return
	}
	writeEmpty(w)
}

func (s *Server) handleApproveProposal(w http.ResponseWriter, r *http.Request) {
	if err := s.index.ApproveProposal(); err != nil {
		writeError(w, err)
		return
	}
	writeEmpty(w)
}

func (s *Server) handleGetProposal(w http.ResponseWriter, r *http.Request) {
	p, err := s.index.GetProposal(chi.URLParam(r, "uid"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleComplete(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.index.Complete(r.URL.Query().Get("query")))
}

func (s *Server) handleCardPage(w http.ResponseWriter, r *http.Request) {
	page, err := s.index.CardPage(chi.URLParam(r, "uid"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleGroupPage(w http.ResponseWriter, r *http.Request) {
	page, err := s.index.GroupPage(chi.URLParam(r, "uid"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}
