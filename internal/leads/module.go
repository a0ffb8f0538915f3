// Package leads provides the lead desk bounded context module.
// This file defines the module that encapsulates all leads setup and route registration.
package leads

import (
	"filmleads_backend/internal/events"
	apphttp "filmleads_backend/internal/http"
	"filmleads_backend/internal/leads/domain"
	"filmleads_backend/internal/leads/handler"
	"filmleads_backend/internal/leads/service"
	"filmleads_backend/internal/settings"
	"filmleads_backend/internal/store"
	"filmleads_backend/platform/config"
	"filmleads_backend/platform/logger"
	"filmleads_backend/platform/validator"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the leads module with all its dependencies.
// sender and pdf are optional; without them sending and PDF export are rejected.
func NewModule(
	codec *store.Codec,
	eventBus events.Bus,
	val *validator.Validator,
	cfg config.LeadsConfig,
	log *logger.Logger,
	sender service.EmailSender,
	pdf handler.ProposalPDFRenderer,
) *Module {
	svc := service.New(codec, eventBus, log)
	svc.SetPhoneRegion(cfg.GetPhoneRegion())
	if sender != nil {
		svc.SetEmailSender(sender)
	}

	return &Module{
		handler: handler.New(svc, val, pdf),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// Service returns the lead desk service for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts leads routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.V1)
}

// SeedWithSettings returns a seed function whose starter database carries the
// pricing settings from path. An empty path keeps the built-in defaults.
func SeedWithSettings(path string) (func() *domain.Database, error) {
	if path == "" {
		return domain.Seed, nil
	}
	loaded, err := settings.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return func() *domain.Database {
		db := domain.Seed()
		db.Settings = settings.Merge(settings.Default(), loaded)
		return db
	}, nil
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
