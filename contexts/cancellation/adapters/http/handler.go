package httpadapter

import (
	"context"
	"fmt"
	"log/slog"

	application "github.com/DOM-Digital-Online-Media/spreadspace-cancel/contexts/cancellation/application"
	"github.com/DOM-Digital-Online-Media/spreadspace-cancel/contexts/cancellation/application/commands"
	"github.com/DOM-Digital-Online-Media/spreadspace-cancel/contexts/cancellation/application/queries"
	httptransport "github.com/DOM-Digital-Online-Media/spreadspace-cancel/contexts/cancellation/transport/http"
)

type Handler struct {
	Submit   commands.SubmitCancellationUseCase
	Download queries.DownloadDocumentUseCase
	// BaseURL is the externally reachable origin used when building the
	// download link returned to the submitter.
	BaseURL string
	Logger  *slog.Logger
}

// SubmitHandler godoc
// @Summary Submit a contract cancellation
// @Description Validates the request, renders the printable confirmation document and notifies both parties by mail.
// @Tags cancellation
// @Accept json
// @Produce json
// @Param request body httptransport.SubmissionRequest true "Cancellation payload"
// @Success 200 {object} httptransport.SubmissionResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /api/kuendigung [post]
func (h Handler) SubmitHandler(ctx context.Context, req httptransport.SubmissionRequest, identityHash string) (httptransport.SubmissionResponse, error) {
	logger := application.ResolveLogger(h.Logger)
	logger.Info("cancellation request received",
		"event", "http_cancellation_received",
		"module", "cancellation",
		"layer", "transport",
		"client", req.Client,
	)

	result, err := h.Submit.Execute(ctx, commands.SubmitCancellationCommand{
		Submission:   req.ToEntity(),
		IdentityHash: identityHash,
	})
	if err != nil {
		logger.Error("cancellation request failed",
			"event", "http_cancellation_failed",
			"module", "cancellation",
			"layer", "transport",
			"client", req.Client,
			"error", err.Error(),
		)
		return httptransport.SubmissionResponse{}, err
	}

	resp := httptransport.SubmissionResponse{Result: "success"}
	if !result.MailOnly {
		resp.URL = fmt.Sprintf("%s/api/kuendigung-download/%s?_format=json", h.BaseURL, result.ArtifactID)
	}
	return resp, nil
}

// DownloadHandler godoc
// @Summary Download a generated cancellation document
// @Description Serves the stored document when the requester address matches the one recorded at generation time.
// @Tags cancellation
// @Produce application/pdf
// @Param uuid path string true "Document id"
// @Success 200 {file} binary
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /api/kuendigung-download/{uuid} [get]
func (h Handler) DownloadHandler(ctx context.Context, req httptransport.DownloadRequest) (queries.DownloadDocumentResult, error) {
	return h.Download.Execute(ctx, queries.DownloadDocumentQuery{
		ArtifactID:   req.ArtifactID,
		IdentityHash: req.IdentityHash,
	})
}
