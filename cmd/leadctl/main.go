package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"filmleads_backend/internal/email"
	"filmleads_backend/internal/events"
	"filmleads_backend/internal/leads"
	"filmleads_backend/internal/leads/service"
	"filmleads_backend/internal/pdf"
	"filmleads_backend/internal/store"
	"filmleads_backend/platform/config"
	"filmleads_backend/platform/logger"
)

var version = "dev"

var (
	noColor bool
	verbose bool
)

// deps is what every command works against.
type deps struct {
	svc   *service.Service
	pdf   *pdf.Renderer
	close func()
}

// openDeps is replaced in tests.
var openDeps = openConfigured

func main() {
	if err := newRootCmd().Execute(); err != nil {
		printError("%v", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "leadctl",
		Short:         "Work the window film lead desk from the terminal",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVar(&noColor, "no-color", os.Getenv("NO_COLOR") != "", "disable colored status output")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log to stderr")

	root.AddCommand(
		newLeadsCmd(),
		newFollowUpsCmd(),
		newBallparkCmd(),
		newProposalCmd(),
		newDraftCmd(),
		newSendCmd(),
		newPreviewCmd(),
		newPDFCmd(),
		newExportCmd(),
		newImportCmd(),
		newSettingsCmd(),
	)
	return root
}

func openConfigured(ctx context.Context) (*deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log := logger.Discard()
	if verbose {
		log = logger.NewWithWriter(cfg.Env, os.Stderr)
	}

	docStore, closeStore, err := store.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	seed, err := leads.SeedWithSettings(cfg.SettingsFile)
	if err != nil {
		closeStore()
		return nil, err
	}

	bus := events.NewInMemoryBus(log)
	svc := service.New(store.NewCodec(docStore, log, seed), bus, log)
	svc.SetPhoneRegion(cfg.PhoneRegion)
	if cfg.IsSMTPEnabled() {
		svc.SetEmailSender(email.NewFromConfig(cfg))
	}

	return &deps{
		svc: svc,
		pdf: pdf.NewRenderer(cfg.BusinessName),
		close: func() {
			bus.Wait()
			closeStore()
		},
	}, nil
}

// withDeps opens the lead desk for one command run.
func withDeps(cmd *cobra.Command, fn func(ctx context.Context, d *deps) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	d, err := openDeps(ctx)
	if err != nil {
		return err
	}
	defer d.close()
	return fn(ctx, d)
}
