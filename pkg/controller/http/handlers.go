package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/voiceops-lab/mnemosyne/pkg/domain/model"
	"github.com/voiceops-lab/mnemosyne/pkg/domain/model/auth"
	"github.com/voiceops-lab/mnemosyne/pkg/domain/types"
	"github.com/voiceops-lab/mnemosyne/pkg/utils/errutil"
	"github.com/voiceops-lab/mnemosyne/pkg/utils/logging"
	"github.com/voiceops-lab/mnemosyne/pkg/utils/safe"
)

// boundTenant returns the tenant resolved by the auth middleware. Handlers
// never read a tenant identifier from the request body or URL.
func boundTenant(r *http.Request) (types.TenantID, error) {
	access := auth.AccessFromContext(r.Context())
	if access == nil {
		return "", goerr.Wrap(types.ErrAuthentication, "no tenant bound to request")
	}
	return access.TenantID, nil
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	raw, err := json.Marshal(body)
	if err != nil {
		logging.From(r.Context()).Warn("failed to encode response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	safe.Write(r.Context(), w, raw)
}

func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, goerr.Wrap(types.ErrValidation, "invalid integer parameter",
			goerr.V("param", name), goerr.V("value", raw))
	}
	return v, nil
}

func subjectParam(r *http.Request) types.SubjectID {
	return types.SubjectID(strings.TrimSpace(chi.URLParam(r, "subject")))
}

func (s *Server) processCallHandler(w http.ResponseWriter, r *http.Request) {
	tenant, err := boundTenant(r)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err)
		return
	}

	var req processCallRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(types.ErrValidation, "invalid request body"))
		return
	}

	result, err := s.uc.ProcessCompletedCall(r.Context(), tenant, req.Subject, req.CallID, model.Transcript(req.Transcript))
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, processCallResponse{
		SummaryID:  result.Summary.ID,
		SnapshotID: result.Snapshot.ID,
		Summary:    result.Summary.Summary,
		Topics:     result.Summary.Topics,
		Sentiment:  result.Summary.Sentiment,
		Provenance: result.Provenance,
	})
}

func (s *Server) contextHandler(w http.ResponseWriter, r *http.Request) {
	tenant, err := boundTenant(r)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err)
		return
	}

	numSummaries, err := queryInt(r, "summaries", model.DefaultContextSummaries)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err)
		return
	}

	callContext, err := s.uc.Compose(r.Context(), tenant, subjectParam(r), numSummaries)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err)
		return
	}

	writeJSON(w, r, http.StatusOK, contextResponse{
		Context:      callContext.Render(),
		SummaryCount: len(callContext.Summaries),
		Partial:      callContext.Partial,
	})
}

func (s *Server) profileHandler(w http.ResponseWriter, r *http.Request) {
	tenant, err := boundTenant(r)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err)
		return
	}

	profile, err := s.uc.GetProfile(r.Context(), tenant, subjectParam(r))
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err)
		return
	}

	writeJSON(w, r, http.StatusOK, toProfileResponse(profile))
}

func (s *Server) personalityHandler(w http.ResponseWriter, r *http.Request) {
	tenant, err := boundTenant(r)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err)
		return
	}

	aggregate, err := s.uc.GetPersonality(r.Context(), tenant, subjectParam(r))
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err)
		return
	}

	writeJSON(w, r, http.StatusOK, toPersonalityResponse(aggregate))
}

func (s *Server) summariesHandler(w http.ResponseWriter, r *http.Request) {
	tenant, err := boundTenant(r)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err)
		return
	}

	limit, err := queryInt(r, "limit", 10)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err)
		return
	}

	subject := subjectParam(r)
	summaries, err := s.uc.SearchSummaries(r.Context(), tenant, subject, r.URL.Query().Get("query"), limit)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err)
		return
	}

	resp := summariesResponse{
		Subject:   subject,
		Summaries: make([]summaryResponse, len(summaries)),
		Total:     len(summaries),
	}
	for i, summary := range summaries {
		resp.Summaries[i] = toSummaryResponse(summary)
	}
	writeJSON(w, r, http.StatusOK, resp)
}

func (s *Server) putMemoryHandler(w http.ResponseWriter, r *http.Request) {
	tenant, err := boundTenant(r)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err)
		return
	}

	var req putMemoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(types.ErrValidation, "invalid request body"))
		return
	}

	kind, err := types.ParseMemoryKind(req.Kind)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(types.ErrValidation, "invalid memory kind",
			goerr.V("kind", req.Kind)))
		return
	}

	entry, err := s.uc.PutMemory(r.Context(), tenant, req.Subject, kind, req.Key, req.Value)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, toMemoryResponse(entry))
}

func (s *Server) listMemoriesHandler(w http.ResponseWriter, r *http.Request) {
	tenant, err := boundTenant(r)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err)
		return
	}

	limit, err := queryInt(r, "limit", 20)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err)
		return
	}

	subject := subjectParam(r)
	var entries []*model.MemoryEntry
	if query := r.URL.Query().Get("query"); query != "" {
		entries, err = s.uc.SearchMemories(r.Context(), tenant, subject, query, limit)
	} else {
		entries, err = s.uc.ListMemories(r.Context(), tenant, subject, limit)
	}
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err)
		return
	}

	resp := memoriesResponse{
		Subject:  subject,
		Memories: make([]memoryResponse, len(entries)),
		Total:    len(entries),
	}
	for i, entry := range entries {
		resp.Memories[i] = toMemoryResponse(entry)
	}
	writeJSON(w, r, http.StatusOK, resp)
}
