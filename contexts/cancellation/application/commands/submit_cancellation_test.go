package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DOM-Digital-Online-Media/spreadspace-cancel/contexts/cancellation/domain/entities"
	domainerrors "github.com/DOM-Digital-Online-Media/spreadspace-cancel/contexts/cancellation/domain/errors"
	"github.com/DOM-Digital-Online-Media/spreadspace-cancel/contexts/cancellation/domain/services"
	"github.com/DOM-Digital-Online-Media/spreadspace-cancel/contexts/cancellation/ports"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

// pipelineState records side effects in call order so tests can assert the
// pipeline sequencing.
type pipelineState struct {
	calls []string
}

type fakeFlood struct {
	state     *pipelineState
	count     int
	countErr  error
	registers []time.Time
}

func (f *fakeFlood) CountEventsSince(_ context.Context, _ string, _ time.Time) (int, error) {
	f.state.calls = append(f.state.calls, "flood.count")
	return f.count, f.countErr
}

func (f *fakeFlood) RegisterEvent(_ context.Context, _ string, at time.Time) error {
	f.state.calls = append(f.state.calls, "flood.register")
	f.registers = append(f.registers, at)
	return nil
}

type fakeArtifacts struct {
	state    *pipelineState
	putErr   error
	stored   []ports.Artifact
	lastData []byte
}

func (f *fakeArtifacts) PutArtifact(_ context.Context, filename, mimeType string, data []byte, now time.Time) (ports.Artifact, error) {
	f.state.calls = append(f.state.calls, "artifacts.put")
	if f.putErr != nil {
		return ports.Artifact{}, f.putErr
	}
	artifact := ports.Artifact{
		ArtifactID: "artifact-1",
		Filename:   filename,
		MimeType:   mimeType,
		ByteSize:   int64(len(data)),
		CreatedAt:  now,
	}
	f.stored = append(f.stored, artifact)
	f.lastData = data
	return artifact, nil
}

func (f *fakeArtifacts) GetArtifact(context.Context, string) (ports.Artifact, []byte, error) {
	return ports.Artifact{}, nil, domainerrors.ErrArtifactNotFound
}

func (f *fakeArtifacts) DeleteArtifactsBefore(context.Context, time.Time) (int, error) {
	return 0, nil
}

type fakeDeliveries struct {
	state   *pipelineState
	records []ports.DeliveryRecord
}

func (f *fakeDeliveries) RecordDelivery(_ context.Context, record ports.DeliveryRecord) error {
	f.state.calls = append(f.state.calls, "deliveries.record")
	f.records = append(f.records, record)
	return nil
}

func (f *fakeDeliveries) MostRecentDelivery(context.Context, string, string) (ports.DeliveryRecord, bool, error) {
	return ports.DeliveryRecord{}, false, nil
}

func (f *fakeDeliveries) DeleteDeliveriesBefore(context.Context, time.Time) (int, error) {
	return 0, nil
}

type fakeMailer struct {
	state   *pipelineState
	sendErr error
	sent    []ports.Message
}

func (f *fakeMailer) Send(_ context.Context, msg ports.Message) error {
	f.state.calls = append(f.state.calls, "mailer.send")
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, msg)
	return nil
}

type fakeRenderer struct {
	state     *pipelineState
	renderErr error
}

func (f fakeRenderer) Render(entities.Submission, string, time.Time) ([]byte, error) {
	f.state.calls = append(f.state.calls, "renderer.render")
	if f.renderErr != nil {
		return nil, f.renderErr
	}
	return []byte("%PDF-fake"), nil
}

type fixture struct {
	state      *pipelineState
	flood      *fakeFlood
	artifacts  *fakeArtifacts
	deliveries *fakeDeliveries
	mailer     *fakeMailer
	renderer   *fakeRenderer
	usecase    SubmitCancellationUseCase
}

func newFixture() *fixture {
	state := &pipelineState{}
	f := &fixture{
		state:      state,
		flood:      &fakeFlood{state: state},
		artifacts:  &fakeArtifacts{state: state},
		deliveries: &fakeDeliveries{state: state},
		mailer:     &fakeMailer{state: state},
		renderer:   &fakeRenderer{state: state},
	}
	f.usecase = SubmitCancellationUseCase{
		Settings: services.ClientSettings{
			Defaults: map[string]string{
				services.SettingRecipient:     "intern@example.com",
				services.SettingSenderAddress: "noreply@example.com",
				services.SettingSenderName:    "congstar",
				services.SettingEmailBody:     "<p>Vielen Dank.</p>",
			},
		},
		Flood:      f.flood,
		Artifacts:  f.artifacts,
		Deliveries: f.deliveries,
		Mailer:     f.mailer,
		Renderer:   f.renderer,
		Clock:      fixedClock{now: time.Date(2026, time.April, 2, 9, 0, 0, 0, time.UTC)},
	}
	return f
}

func submitCommand() SubmitCancellationCommand {
	return SubmitCancellationCommand{
		Submission: entities.Submission{
			LastName:          "Muster",
			FirstName:         "Max",
			Street:            "Hauptstrasse",
			StreetNumber:      "12",
			Zipcode:           "90402",
			City:              "Nürnberg",
			EmailAddress:      "max@example.com",
			CustomerID:        "C-100200",
			MobilePhoneNumber: "+49 170 1234567",
		},
		IdentityHash: "hash-abc",
	}
}

func TestSubmitPipelineOrdering(t *testing.T) {
	f := newFixture()

	result, err := f.usecase.Execute(context.Background(), submitCommand())
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if result.ArtifactID != "artifact-1" || result.MailOnly {
		t.Fatalf("unexpected result %+v", result)
	}

	want := []string{
		"flood.count",
		"renderer.render",
		"artifacts.put",
		"deliveries.record",
		"mailer.send",
		"mailer.send",
		"flood.register",
	}
	if len(f.state.calls) != len(want) {
		t.Fatalf("calls %v, want %v", f.state.calls, want)
	}
	for i, call := range want {
		if f.state.calls[i] != call {
			t.Fatalf("call %d = %s, want %s (full: %v)", i, f.state.calls[i], call, f.state.calls)
		}
	}
}

func TestSubmitRecordsDeliveryForIdentity(t *testing.T) {
	f := newFixture()

	if _, err := f.usecase.Execute(context.Background(), submitCommand()); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if len(f.deliveries.records) != 1 {
		t.Fatalf("expected one delivery record, got %d", len(f.deliveries.records))
	}
	record := f.deliveries.records[0]
	if record.IdentityHash != "hash-abc" || record.ArtifactID != "artifact-1" {
		t.Fatalf("unexpected record %+v", record)
	}
}

func TestSubmitNotifiesBothParties(t *testing.T) {
	f := newFixture()

	if _, err := f.usecase.Execute(context.Background(), submitCommand()); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if len(f.mailer.sent) != 2 {
		t.Fatalf("expected two mails, got %d", len(f.mailer.sent))
	}

	customer, internal := f.mailer.sent[0], f.mailer.sent[1]
	if customer.To != "max@example.com" || customer.Subject != "Bestätigung Ihrer Kündigung" {
		t.Fatalf("unexpected customer mail %+v", customer)
	}
	if customer.Body != "<p>Vielen Dank.</p>" {
		t.Fatalf("customer body not taken from configuration: %q", customer.Body)
	}
	if internal.To != "intern@example.com" || internal.Subject != "Kündigung C-100200" {
		t.Fatalf("unexpected internal mail %+v", internal)
	}
	if len(customer.Attachments) != 1 || len(internal.Attachments) != 1 {
		t.Fatal("both mails must carry the document attachment")
	}
}

func TestSubmitRateLimitedAtThreshold(t *testing.T) {
	f := newFixture()
	f.flood.count = defaultFloodThreshold

	_, err := f.usecase.Execute(context.Background(), submitCommand())
	if !errors.Is(err, domainerrors.ErrTooManyRequests) {
		t.Fatalf("expected too many requests, got %v", err)
	}
	if len(f.flood.registers) != 0 {
		t.Fatal("rejected request must not register a flood event")
	}
	if len(f.artifacts.stored) != 0 {
		t.Fatal("rejected request must not store artifacts")
	}
}

func TestSubmitBelowThresholdPasses(t *testing.T) {
	f := newFixture()
	f.flood.count = defaultFloodThreshold - 1

	if _, err := f.usecase.Execute(context.Background(), submitCommand()); err != nil {
		t.Fatalf("submit below threshold failed: %v", err)
	}
}

func TestSubmitFloodDisabledSkipsGate(t *testing.T) {
	f := newFixture()
	f.flood.count = 100
	f.usecase.Settings.Defaults[services.SettingDisableFlood] = "true"

	if _, err := f.usecase.Execute(context.Background(), submitCommand()); err != nil {
		t.Fatalf("submit with disabled flood protection failed: %v", err)
	}
	for _, call := range f.state.calls {
		if call == "flood.count" {
			t.Fatal("flood count must not run when protection is disabled")
		}
	}
	// Sliding-window writes continue so re-enabling has full history.
	if len(f.flood.registers) != 1 {
		t.Fatal("successful submission still registers a flood event")
	}
}

func TestSubmitMissingRecipientConfiguration(t *testing.T) {
	f := newFixture()
	delete(f.usecase.Settings.Defaults, services.SettingRecipient)

	_, err := f.usecase.Execute(context.Background(), submitCommand())
	if !errors.Is(err, domainerrors.ErrNotConfigured) {
		t.Fatalf("expected not configured error, got %v", err)
	}
	if len(f.artifacts.stored) != 0 || len(f.mailer.sent) != 0 {
		t.Fatal("configuration failure must precede all side effects")
	}
}

func TestSubmitRenderFailureLeavesNoRecord(t *testing.T) {
	f := newFixture()
	f.renderer.renderErr = domainerrors.ErrRender

	_, err := f.usecase.Execute(context.Background(), submitCommand())
	if !errors.Is(err, domainerrors.ErrRender) {
		t.Fatalf("expected render error, got %v", err)
	}
	if len(f.artifacts.stored) != 0 || len(f.deliveries.records) != 0 || len(f.flood.registers) != 0 {
		t.Fatal("render failure must leave no persisted state")
	}
}

func TestSubmitMailFailureIsSwallowed(t *testing.T) {
	f := newFixture()
	f.mailer.sendErr = errors.New("smtp unreachable")

	result, err := f.usecase.Execute(context.Background(), submitCommand())
	if err != nil {
		t.Fatalf("mail failure must not fail the submission: %v", err)
	}
	if result.ArtifactID == "" {
		t.Fatal("artifact must still be issued")
	}
	if len(f.deliveries.records) != 1 {
		t.Fatal("delivery record must survive mail failure")
	}
	if len(f.flood.registers) != 1 {
		t.Fatal("flood event must still be registered")
	}
}

func TestSubmitValidationErrorShortCircuits(t *testing.T) {
	f := newFixture()
	cmd := submitCommand()
	cmd.Submission.EmailAddress = ""

	_, err := f.usecase.Execute(context.Background(), cmd)
	if !errors.Is(err, domainerrors.ErrMissingField) {
		t.Fatalf("expected missing field error, got %v", err)
	}
	if len(f.state.calls) != 0 {
		t.Fatalf("validation failure must run before any port call, got %v", f.state.calls)
	}
}

func TestSubmitRelaxedClientFilename(t *testing.T) {
	f := newFixture()
	cmd := submitCommand()
	cmd.Submission.Client = entities.ClientNorma
	cmd.Submission.CustomerID = ""
	cmd.Submission.SimCardNumber = "8949123456789"

	if _, err := f.usecase.Execute(context.Background(), cmd); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if len(f.artifacts.stored) != 1 {
		t.Fatal("expected one stored artifact")
	}
	if f.artifacts.stored[0].Filename != "Kündigung_+49 170 1234567.pdf" {
		t.Fatalf("unexpected filename %q", f.artifacts.stored[0].Filename)
	}

	internal := f.mailer.sent[1]
	if internal.Subject != "Kündigung +49 170 1234567" {
		t.Fatalf("relaxed client must be referenced by phone number, got %q", internal.Subject)
	}
}

func TestSubmitShareFlowSkipsDocument(t *testing.T) {
	f := newFixture()
	cmd := submitCommand()
	cmd.Submission.Client = entities.ClientShare
	cmd.Submission.IBAN = "DE02120300000000202051"

	result, err := f.usecase.Execute(context.Background(), cmd)
	if err != nil {
		t.Fatalf("share submission failed: %v", err)
	}
	if !result.MailOnly || result.ArtifactID != "" {
		t.Fatalf("expected mail-only result, got %+v", result)
	}
	if len(f.artifacts.stored) != 0 || len(f.deliveries.records) != 0 {
		t.Fatal("share flow must not store a document")
	}
	if len(f.mailer.sent) != 2 {
		t.Fatalf("expected two mails, got %d", len(f.mailer.sent))
	}
	for _, msg := range f.mailer.sent {
		if len(msg.Attachments) != 0 {
			t.Fatal("share mails carry no attachment")
		}
	}
	if len(f.flood.registers) != 1 {
		t.Fatal("share flow still registers a flood event")
	}
}
