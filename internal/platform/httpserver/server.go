package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	campaignregistry "crowdfund/contexts/crowdfunding/campaign-registry"
	campaignerrors "crowdfund/contexts/crowdfunding/campaign-registry/domain/errors"
	campaignhttp "crowdfund/contexts/crowdfunding/campaign-registry/transport/http"
	identitydirectory "crowdfund/contexts/crowdfunding/identity-directory"
	identityerrors "crowdfund/contexts/crowdfunding/identity-directory/domain/errors"
	identityhttp "crowdfund/contexts/crowdfunding/identity-directory/transport/http"
	_ "crowdfund/internal/platform/httpserver/docs"

	httpSwagger "github.com/swaggo/http-swagger"
)

const (
	defaultPage     = 1
	defaultPageSize = 20
	shutdownTimeout = 10 * time.Second
)

type Server struct {
	mux        *http.ServeMux
	logger     *slog.Logger
	addr       string
	identities identitydirectory.Module
	campaigns  campaignregistry.Module
}

func New(
	identities identitydirectory.Module,
	campaigns campaignregistry.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:        http.NewServeMux(),
		logger:     logger,
		addr:       addr,
		identities: identities,
		campaigns:  campaigns,
	}
	s.registerRoutes()
	return s
}

// Run serves until ctx is cancelled and then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server starting",
			"event", "http_server_starting",
			"module", "internal/platform/httpserver",
			"layer", "platform",
			"addr", s.addr,
		)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info("http server stopped",
		"event", "http_server_stopped",
		"module", "internal/platform/httpserver",
		"layer", "platform",
	)
	return nil
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("POST /v1/identities", s.handleRegisterIdentity)
	s.mux.HandleFunc("GET /v1/identities/{identity}", s.handleGetProfile)

	s.mux.HandleFunc("POST /v1/campaigns", s.handleCreateCampaign)
	s.mux.HandleFunc("GET /v1/campaigns", s.handleListAllCampaigns)
	s.mux.HandleFunc("GET /v1/owners/{owner}/campaigns", s.handleListOwnerCampaigns)
	s.mux.HandleFunc("GET /v1/owners/{owner}/campaigns/{local_id}", s.handleGetCampaign)
	s.mux.HandleFunc("PATCH /v1/owners/{owner}/campaigns/{local_id}", s.handleUpdateCampaign)
	s.mux.HandleFunc("DELETE /v1/owners/{owner}/campaigns/{local_id}", s.handleDeleteCampaign)
}

func (s *Server) handleRegisterIdentity(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.Header.Get("X-User-Id"))
	if userID == "" {
		writeIdentityError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	var req identityhttp.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeIdentityError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.identities.Handler.RegisterHandler(r.Context(), userID, req)
	if err != nil {
		writeIdentityDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	resp, err := s.identities.Handler.GetProfileHandler(r.Context(), r.PathValue("identity"))
	if err != nil {
		writeIdentityDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateCampaign(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.Header.Get("X-User-Id"))
	if userID == "" {
		writeCampaignError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	var req campaignhttp.CreateCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeCampaignError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.campaigns.Handler.CreateCampaignHandler(r.Context(), userID, req)
	if err != nil {
		writeCampaignDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListAllCampaigns(w http.ResponseWriter, r *http.Request) {
	s.listCampaigns(w, r, "")
}

func (s *Server) handleListOwnerCampaigns(w http.ResponseWriter, r *http.Request) {
	owner := strings.TrimSpace(r.PathValue("owner"))
	if owner == "" {
		writeCampaignError(w, http.StatusBadRequest, "invalid_owner", "owner is required")
		return
	}
	s.listCampaigns(w, r, owner)
}

func (s *Server) listCampaigns(w http.ResponseWriter, r *http.Request, owner string) {
	query := r.URL.Query()
	page, ok := parseIntParam(query.Get("page"), defaultPage)
	if !ok {
		writeCampaignError(w, http.StatusBadRequest, "invalid_page", "page must be an integer")
		return
	}
	pageSize, ok := parseIntParam(query.Get("page_size"), defaultPageSize)
	if !ok {
		writeCampaignError(w, http.StatusBadRequest, "invalid_page_size", "page_size must be an integer")
		return
	}

	resp, err := s.campaigns.Handler.ListCampaignsHandler(r.Context(), owner, page, pageSize)
	if err != nil {
		writeCampaignDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetCampaign(w http.ResponseWriter, r *http.Request) {
	localID, ok := parseLocalID(w, r)
	if !ok {
		return
	}
	resp, err := s.campaigns.Handler.GetCampaignHandler(r.Context(), r.PathValue("owner"), localID)
	if err != nil {
		writeCampaignDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateCampaign(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.Header.Get("X-User-Id"))
	if userID == "" {
		writeCampaignError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}
	localID, ok := parseLocalID(w, r)
	if !ok {
		return
	}

	var req campaignhttp.UpdateCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeCampaignError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.campaigns.Handler.UpdateCampaignHandler(r.Context(), userID, r.PathValue("owner"), localID, req)
	if err != nil {
		writeCampaignDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteCampaign(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.Header.Get("X-User-Id"))
	if userID == "" {
		writeCampaignError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}
	localID, ok := parseLocalID(w, r)
	if !ok {
		return
	}

	if err := s.campaigns.Handler.DeleteCampaignHandler(r.Context(), userID, r.PathValue("owner"), localID); err != nil {
		writeCampaignDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parseLocalID(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	localID, err := strconv.ParseUint(r.PathValue("local_id"), 10, 64)
	if err != nil {
		writeCampaignError(w, http.StatusBadRequest, "invalid_local_id", "local_id must be an unsigned integer")
		return 0, false
	}
	return localID, true
}

func parseIntParam(raw string, fallback int) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return value, true
}

func writeIdentityDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, identityerrors.ErrInvalidArgument):
		writeIdentityError(w, http.StatusBadRequest, "invalid_argument", err.Error())
	case errors.Is(err, identityerrors.ErrIdentityNotFound):
		writeIdentityError(w, http.StatusNotFound, "identity_not_found", err.Error())
	default:
		writeIdentityError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeCampaignDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, campaignerrors.ErrUnauthorized):
		writeCampaignError(w, http.StatusUnauthorized, "unauthorized", err.Error())
	case errors.Is(err, campaignerrors.ErrForbidden):
		writeCampaignError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, campaignerrors.ErrCampaignNotFound):
		writeCampaignError(w, http.StatusNotFound, "campaign_not_found", err.Error())
	case errors.Is(err, campaignerrors.ErrInvalidArgument):
		writeCampaignError(w, http.StatusBadRequest, "invalid_argument", err.Error())
	default:
		writeCampaignError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeIdentityError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, identityhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeCampaignError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, campaignhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
