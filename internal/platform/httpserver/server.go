package httpserver

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"net"
	"net/http"
	"strconv"
	"strings"

	httpSwagger "github.com/swaggo/http-swagger"

	cancellation "github.com/DOM-Digital-Online-Media/spreadspace-cancel/contexts/cancellation"
	cancelerrors "github.com/DOM-Digital-Online-Media/spreadspace-cancel/contexts/cancellation/domain/errors"
	cancelhttp "github.com/DOM-Digital-Online-Media/spreadspace-cancel/contexts/cancellation/transport/http"
	_ "github.com/DOM-Digital-Online-Media/spreadspace-cancel/internal/platform/httpserver/docs"
)

type Server struct {
	mux          *http.ServeMux
	logger       *slog.Logger
	addr         string
	cancellation cancellation.Module
}

func New(cancellationModule cancellation.Module, logger *slog.Logger, addr string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:          http.NewServeMux(),
		logger:       logger,
		addr:         addr,
		cancellation: cancellationModule,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Handler exposes the routing mux for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("POST /api/kuendigung", s.handleSubmit)
	s.mux.HandleFunc("GET /api/kuendigung-download/{uuid}", s.handleDownload)
	s.mux.HandleFunc("GET /api/kuendigung-download", s.handleDownloadMissingID)
	s.mux.HandleFunc("GET /api/kuendigung-download/", s.handleDownloadMissingID)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req cancelhttp.SubmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeCancelError(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON")
		return
	}

	resp, err := s.cancellation.Handler.SubmitHandler(r.Context(), req, identityHash(r))
	if err != nil {
		writeCancelDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	artifactID := r.PathValue("uuid")

	result, err := s.cancellation.Handler.DownloadHandler(r.Context(), cancelhttp.DownloadRequest{
		ArtifactID:   artifactID,
		IdentityHash: identityHash(r),
	})
	if err != nil {
		writeCancelDomainError(w, err)
		return
	}

	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": result.Filename})
	w.Header().Set("Content-Type", result.MimeType)
	w.Header().Set("Content-Disposition", disposition)
	w.Header().Set("Content-Length", strconv.Itoa(len(result.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Data)
}

func (s *Server) handleDownloadMissingID(w http.ResponseWriter, _ *http.Request) {
	writeCancelError(w, http.StatusBadRequest, "missing_document_id", "document id is required")
}

func writeCancelDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, cancelerrors.ErrNoData):
		writeCancelError(w, http.StatusBadRequest, "no_data", err.Error())
	case errors.Is(err, cancelerrors.ErrMissingField):
		writeCancelError(w, http.StatusBadRequest, "missing_field", err.Error())
	case errors.Is(err, cancelerrors.ErrIdentifierRequired):
		writeCancelError(w, http.StatusBadRequest, "identifier_required", err.Error())
	case errors.Is(err, cancelerrors.ErrReasonTooLong):
		writeCancelError(w, http.StatusBadRequest, "reason_too_long", err.Error())
	case errors.Is(err, cancelerrors.ErrTooManyRequests):
		writeCancelError(w, http.StatusForbidden, "too_many_requests", err.Error())
	case errors.Is(err, cancelerrors.ErrArtifactNotFound):
		writeCancelError(w, http.StatusNotFound, "document_not_found", "document not found")
	case errors.Is(err, cancelerrors.ErrDownloadDenied):
		writeCancelError(w, http.StatusForbidden, "download_denied", "download denied")
	default:
		// Configuration and rendering failures stay opaque to callers.
		writeCancelError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeCancelError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, cancelhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// identityHash derives the download entitlement token from the client
// network address. The same derivation runs at submission and download time.
func identityHash(r *http.Request) string {
	sum := sha256.Sum256([]byte(resolveClientIP(r)))
	return hex.EncodeToString(sum[:])
}

func resolveClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		// First hop in the chain is the original client.
		if idx := strings.Index(forwarded, ","); idx >= 0 {
			forwarded = forwarded[:idx]
		}
		return strings.TrimSpace(forwarded)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
