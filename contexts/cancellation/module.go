package cancellation

import (
	"log/slog"
	"time"

	httpadapter "github.com/DOM-Digital-Online-Media/spreadspace-cancel/contexts/cancellation/adapters/http"
	"github.com/DOM-Digital-Online-Media/spreadspace-cancel/contexts/cancellation/adapters/memory"
	"github.com/DOM-Digital-Online-Media/spreadspace-cancel/contexts/cancellation/application/commands"
	"github.com/DOM-Digital-Online-Media/spreadspace-cancel/contexts/cancellation/application/queries"
	"github.com/DOM-Digital-Online-Media/spreadspace-cancel/contexts/cancellation/domain/services"
	"github.com/DOM-Digital-Online-Media/spreadspace-cancel/contexts/cancellation/ports"
	"github.com/DOM-Digital-Online-Media/spreadspace-cancel/contexts/cancellation/render"
)

// Module is the composition surface for the cancellation context.
// Runtime wiring should consume Handler; Store and Mailer are exposed for
// tests/inspection when built in memory.
type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
	Mailer  *memory.Mailer
}

type Dependencies struct {
	Settings       services.ClientSettings
	Flood          ports.FloodStore
	Artifacts      ports.ArtifactStore
	Deliveries     ports.DeliveryRecordStore
	Mailer         ports.Mailer
	Renderer       ports.DocumentRenderer
	Clock          ports.Clock
	FloodThreshold int
	FloodWindow    time.Duration
	BaseURL        string
	Logger         *slog.Logger
}

// NewModule wires the cancellation use-cases against explicit ports.
func NewModule(deps Dependencies) Module {
	submit := commands.SubmitCancellationUseCase{
		Settings:       deps.Settings,
		Flood:          deps.Flood,
		Artifacts:      deps.Artifacts,
		Deliveries:     deps.Deliveries,
		Mailer:         deps.Mailer,
		Renderer:       deps.Renderer,
		Clock:          deps.Clock,
		FloodThreshold: deps.FloodThreshold,
		FloodWindow:    deps.FloodWindow,
		Logger:         deps.Logger,
	}
	download := queries.DownloadDocumentUseCase{
		Artifacts:  deps.Artifacts,
		Deliveries: deps.Deliveries,
		Logger:     deps.Logger,
	}

	handler := httpadapter.Handler{
		Submit:   submit,
		Download: download,
		BaseURL:  deps.BaseURL,
		Logger:   deps.Logger,
	}

	return Module{Handler: handler}
}

// NewInMemoryModule wires the cancellation use cases against in-memory
// adapters. This is the developer/runtime bootstrap path when no database or
// mail transport is configured.
func NewInMemoryModule(settings services.ClientSettings, baseURL string, logger *slog.Logger) Module {
	store := memory.NewStore()
	mailer := memory.NewMailer(logger)
	module := NewModule(Dependencies{
		Settings:   settings,
		Flood:      store,
		Artifacts:  store,
		Deliveries: store,
		Mailer:     mailer,
		Renderer:   render.FormRenderer{},
		BaseURL:    baseURL,
		Logger:     logger,
	})
	module.Store = store
	module.Mailer = mailer
	return module
}
