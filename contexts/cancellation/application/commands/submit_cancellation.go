package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	application "github.com/DOM-Digital-Online-Media/spreadspace-cancel/contexts/cancellation/application"
	"github.com/DOM-Digital-Online-Media/spreadspace-cancel/contexts/cancellation/domain/entities"
	domainerrors "github.com/DOM-Digital-Online-Media/spreadspace-cancel/contexts/cancellation/domain/errors"
	"github.com/DOM-Digital-Online-Media/spreadspace-cancel/contexts/cancellation/domain/services"
	"github.com/DOM-Digital-Online-Media/spreadspace-cancel/contexts/cancellation/ports"
)

// FloodKey is the shared sliding-window operation key. All client variants
// count against the same window.
const FloodKey = "contract_cancel"

const (
	defaultFloodThreshold = 5
	defaultFloodWindow    = 24 * time.Hour

	documentMimeType = "application/pdf"
	documentBaseName = "Kündigung"
)

type SubmitCancellationCommand struct {
	Submission entities.Submission
	// IdentityHash is the one-way digest of the caller's network address,
	// recorded so the same requester can re-download the document later.
	IdentityHash string
}

type SubmitCancellationResult struct {
	// ArtifactID references the generated document; empty for the mail-only
	// flow.
	ArtifactID string
	MailOnly   bool
}

// SubmitCancellationUseCase runs the full submission pipeline. The order is
// fixed: validation, flood gate, configuration resolution, rendering,
// artifact storage, delivery recording, notification dispatch.
type SubmitCancellationUseCase struct {
	Settings       services.ClientSettings
	Flood          ports.FloodStore
	Artifacts      ports.ArtifactStore
	Deliveries     ports.DeliveryRecordStore
	Mailer         ports.Mailer
	Renderer       ports.DocumentRenderer
	Clock          ports.Clock
	FloodThreshold int
	FloodWindow    time.Duration
	Logger         *slog.Logger
}

func (u SubmitCancellationUseCase) Execute(ctx context.Context, cmd SubmitCancellationCommand) (SubmitCancellationResult, error) {
	logger := application.ResolveLogger(u.Logger)
	sub := cmd.Submission
	now := time.Now().UTC()
	if u.Clock != nil {
		now = u.Clock.Now().UTC()
	}

	if err := services.ValidateSubmission(sub); err != nil {
		return SubmitCancellationResult{}, err
	}

	if !u.Settings.FloodProtectionDisabled(sub.Client) {
		count, err := u.Flood.CountEventsSince(ctx, FloodKey, now.Add(-u.floodWindow()))
		if err != nil {
			return SubmitCancellationResult{}, err
		}
		if count >= u.floodThreshold() {
			return SubmitCancellationResult{}, domainerrors.ErrTooManyRequests
		}
	}

	// Fail fast when the internal recipient is unconfigured: generating a
	// document that cannot be delivered helps nobody.
	recipient, ok := u.Settings.Resolve(sub.Client, services.SettingRecipient)
	if !ok {
		return SubmitCancellationResult{}, domainerrors.ErrNotConfigured
	}
	sender := ports.SenderIdentity{}
	sender.Address, _ = u.Settings.Resolve(sub.Client, services.SettingSenderAddress)
	sender.Name, _ = u.Settings.Resolve(sub.Client, services.SettingSenderName)

	if sub.MailOnly() {
		u.sendShareNotifications(ctx, sub, recipient, sender, logger)
		if err := u.Flood.RegisterEvent(ctx, FloodKey, now); err != nil {
			return SubmitCancellationResult{}, err
		}
		return SubmitCancellationResult{MailOnly: true}, nil
	}

	data, err := u.Renderer.Render(sub, sender.Name, now)
	if err != nil {
		logger.Error("there was an issue with generating the document",
			"event", "cancellation_render_failed",
			"module", "cancellation",
			"layer", "application",
			"client", sub.Client,
			"error", err.Error(),
		)
		return SubmitCancellationResult{}, err
	}

	artifact, err := u.Artifacts.PutArtifact(ctx, u.documentFilename(sub), documentMimeType, data, now)
	if err != nil {
		return SubmitCancellationResult{}, err
	}

	// The delivery record must exist before the artifact reference leaves
	// this process; otherwise the submitter could never fetch it again.
	if err := u.Deliveries.RecordDelivery(ctx, ports.DeliveryRecord{
		IdentityHash: cmd.IdentityHash,
		ArtifactID:   artifact.ArtifactID,
		CreatedAt:    now,
	}); err != nil {
		return SubmitCancellationResult{}, err
	}

	attachment := ports.Attachment{
		Filename: artifact.Filename,
		MimeType: artifact.MimeType,
		Data:     data,
	}
	u.sendNotifications(ctx, sub, recipient, sender, attachment, logger)

	if err := u.Flood.RegisterEvent(ctx, FloodKey, now); err != nil {
		return SubmitCancellationResult{}, err
	}

	logger.Info("cancellation document issued",
		"event", "cancellation_document_issued",
		"module", "cancellation",
		"layer", "application",
		"client", sub.Client,
		"artifact_id", artifact.ArtifactID,
	)

	return SubmitCancellationResult{ArtifactID: artifact.ArtifactID}, nil
}

// sendNotifications dispatches the customer confirmation and the internal
// copy. Failures are logged and swallowed: the artifact and its delivery
// record are already durable and stay valid.
func (u SubmitCancellationUseCase) sendNotifications(
	ctx context.Context,
	sub entities.Submission,
	recipient string,
	sender ports.SenderIdentity,
	attachment ports.Attachment,
	logger *slog.Logger,
) {
	body, _ := u.Settings.Resolve(sub.Client, services.SettingEmailBody)

	u.send(ctx, logger, "customer", ports.Message{
		To:          sub.EmailAddress,
		Subject:     "Bestätigung Ihrer Kündigung",
		Body:        body,
		Sender:      sender,
		Attachments: []ports.Attachment{attachment},
	})
	u.send(ctx, logger, "internal", ports.Message{
		To:          recipient,
		Subject:     fmt.Sprintf("Kündigung %s", referenceID(sub)),
		Body:        internalBody(sub),
		Sender:      sender,
		Attachments: []ports.Attachment{attachment},
	})
}

// sendShareNotifications covers the mail-only flow: both copies go out
// without an attachment and the service-center body carries the field
// summary.
func (u SubmitCancellationUseCase) sendShareNotifications(
	ctx context.Context,
	sub entities.Submission,
	recipient string,
	sender ports.SenderIdentity,
	logger *slog.Logger,
) {
	u.send(ctx, logger, "customer", ports.Message{
		To:      sub.EmailAddress,
		Subject: "Bestätigung Ihrer Kündigung",
		Body:    shareCustomerBody(sub),
		Sender:  sender,
	})
	u.send(ctx, logger, "internal", ports.Message{
		To:      recipient,
		Subject: fmt.Sprintf("Kündigung %s", sub.CustomerID),
		Body:    internalBody(sub),
		Sender:  sender,
	})
}

func (u SubmitCancellationUseCase) send(ctx context.Context, logger *slog.Logger, kind string, msg ports.Message) {
	if err := u.Mailer.Send(ctx, msg); err != nil {
		logger.Error("notification dispatch failed",
			"event", "cancellation_notification_failed",
			"module", "cancellation",
			"layer", "application",
			"kind", kind,
			"error", err.Error(),
		)
	}
}

// documentFilename derives the internal attachment name. Relaxed clients key
// the document by phone number since the customer ID may be absent.
func (u SubmitCancellationUseCase) documentFilename(sub entities.Submission) string {
	if sub.RelaxedClient() {
		return fmt.Sprintf("%s_%s.pdf", documentBaseName, sub.MobilePhoneNumber)
	}
	return documentBaseName + ".pdf"
}

// referenceID is the identifier quoted in the internal copy: the phone number
// for relaxed clients, the customer ID otherwise.
func referenceID(sub entities.Submission) string {
	if sub.RelaxedClient() {
		return sub.MobilePhoneNumber
	}
	return sub.CustomerID
}

func (u SubmitCancellationUseCase) floodThreshold() int {
	if u.FloodThreshold <= 0 {
		return defaultFloodThreshold
	}
	return u.FloodThreshold
}

func (u SubmitCancellationUseCase) floodWindow() time.Duration {
	if u.FloodWindow <= 0 {
		return defaultFloodWindow
	}
	return u.FloodWindow
}
