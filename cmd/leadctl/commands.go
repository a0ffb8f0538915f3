package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"filmleads_backend/internal/leads/domain"
	"filmleads_backend/internal/leads/transport"
	"filmleads_backend/internal/settings"
	"filmleads_backend/platform/validator"
)

// --- leads ---

func newLeadsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leads",
		Short: "List, show and create leads",
	}
	cmd.AddCommand(newLeadsListCmd(), newLeadsShowCmd(), newLeadsCreateCmd())
	return cmd
}

func newLeadsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List leads, most recently updated first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd, func(ctx context.Context, d *deps) error {
				res, err := d.svc.ListLeads(ctx)
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				for _, l := range res.Items {
					fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", l.ID, l.Status, l.Score, orDash(l.Name()), orDash(l.City()))
				}
				return nil
			})
		},
	}
}

func newLeadsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show LEAD_ID",
		Short: "Show a lead with its score and intake checklist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd, func(ctx context.Context, d *deps) error {
				res, err := d.svc.GetLead(ctx, args[0])
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), res)
			})
		},
	}
}

func newLeadsCreateCmd() *cobra.Command {
	var (
		req   transport.CreateLeadRequest
		sqft  float64
		goals string
		tags  string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a lead",
		Long: `Create a lead.

Examples:
  leadctl leads create --name "Avery Johnson" --phone 410-555-0123 --city Baltimore --sqft 180 --goals heat,glare
  leadctl leads create --email fm@example.com --job-type commercial --source phone`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("sqft") {
				req.SqftEstimate = &sqft
			}
			req.Goals = splitList(goals)
			req.Tags = splitList(tags)
			if err := validator.New().Struct(req); err != nil {
				return fmt.Errorf("invalid lead: %w", err)
			}

			return withDeps(cmd, func(ctx context.Context, d *deps) error {
				lead, err := d.svc.CreateLead(ctx, req)
				if err != nil {
					return err
				}
				printSuccess("Created %s (score %d)", lead.ID, lead.Score)
				return writeJSON(cmd.OutOrStdout(), lead)
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&req.Source, "source", "", "manual, web or phone")
	f.StringVar(&req.Name, "name", "", "contact name")
	f.StringVar(&req.Phone, "phone", "", "contact phone")
	f.StringVar(&req.Email, "email", "", "contact email")
	f.StringVar(&req.Address, "address", "", "site address")
	f.StringVar(&req.City, "city", "", "site city")
	f.StringVar(&req.State, "state", "", "site state")
	f.StringVar(&req.JobType, "job-type", "", "residential, commercial or both")
	f.Float64Var(&sqft, "sqft", 0, "rough total sqft")
	f.StringVar(&req.FilmCategory, "film", "", "film category, e.g. solar_interior")
	f.StringVar(&goals, "goals", "", "comma-separated goals")
	f.StringVar(&req.Access, "access", "", "access constraints")
	f.StringVar(&req.Notes, "notes", "", "free-form notes")
	f.StringVar(&tags, "tags", "", "comma-separated tags")
	return cmd
}

// --- orchestration ---

func newFollowUpsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "followups LEAD_ID",
		Short: "Create the default follow-up tasks for a lead",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd, func(ctx context.Context, d *deps) error {
				res, err := d.svc.CreateDefaultFollowUps(ctx, args[0])
				if err != nil {
					return err
				}
				if res.Created == 0 {
					printWarning("Follow-ups already exist for %s", args[0])
				} else {
					printSuccess("Created %d follow-up tasks", res.Created)
				}
				return writeJSON(cmd.OutOrStdout(), res.Tasks)
			})
		},
	}
}

func newBallparkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ballpark LEAD_ID",
		Short: "Generate a ballpark range and print the customer text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd, func(ctx context.Context, d *deps) error {
				q, err := d.svc.GenerateBallparkQuote(ctx, args[0])
				if err != nil {
					return err
				}
				printSuccess("Saved %s", q.ID)
				fmt.Fprintln(cmd.OutOrStdout(), q.Outputs.Text)
				return nil
			})
		},
	}
}

func newProposalCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "proposal LEAD_ID",
		Short: "Generate a proposal and write its HTML document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd, func(ctx context.Context, d *deps) error {
				q, err := d.svc.GenerateProposal(ctx, args[0])
				if err != nil {
					return err
				}
				printSuccess("Saved %s (total %.2f)", q.ID, q.Outputs.Computed.Total)
				return writeOutput(cmd, out, []byte(q.Outputs.ProposalHTML))
			})
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the HTML to this file instead of stdout")
	return cmd
}

func newDraftCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "draft LEAD_ID",
		Short: "Draft a reply on the best channel for the lead",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd, func(ctx context.Context, d *deps) error {
				res, err := d.svc.DraftReply(ctx, args[0])
				if err != nil {
					return err
				}
				printSuccess("Drafted %s via %s", res.Message.ID, res.Message.Channel)
				w := cmd.OutOrStdout()
				if res.Message.Subject != nil {
					fmt.Fprintf(w, "Subject: %s\n\n", *res.Message.Subject)
				}
				fmt.Fprintln(w, res.Message.Body)
				return nil
			})
		},
	}
}

func newSendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send MESSAGE_ID",
		Short: "Send a drafted email message over SMTP",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd, func(ctx context.Context, d *deps) error {
				msg, err := d.svc.SendMessage(ctx, args[0])
				if err != nil {
					return err
				}
				if msg.Status != domain.MessageSent {
					return fmt.Errorf("message %s %s", msg.ID, strings.ToLower(msg.Status))
				}
				printSuccess("Sent %s", msg.ID)
				return nil
			})
		},
	}
}

func newPreviewCmd() *cobra.Command {
	var (
		req     transport.PreviewRequest
		sqft    float64
		removal bool
	)

	cmd := &cobra.Command{
		Use:   "preview LEAD_ID",
		Short: "Price a lead with custom options without saving a quote",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("sqft") {
				req.MeasuredSqft = &sqft
			}
			if cmd.Flags().Changed("removal") {
				req.IncludeRemoval = &removal
			}
			if err := validator.New().Struct(req); err != nil {
				return fmt.Errorf("invalid options: %w", err)
			}
			return withDeps(cmd, func(ctx context.Context, d *deps) error {
				res, err := d.svc.PreviewQuote(ctx, args[0], req)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), res.Quote)
			})
		},
	}

	f := cmd.Flags()
	f.Float64Var(&sqft, "sqft", 0, "measured sqft")
	f.StringVar(&req.Complexity, "complexity", "", "simple, mixed or complex")
	f.StringVar(&req.MarginTier, "tier", "", "good, better or best")
	f.BoolVar(&removal, "removal", false, "include old film removal")
	f.BoolVar(&req.HeavyAdhesive, "heavy-adhesive", false, "add the heavy adhesive removal adder")
	f.BoolVar(&req.PermitHandling, "permit", false, "add permit handling")
	return cmd
}

func newPDFCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "pdf QUOTE_ID",
		Short: "Render a proposal quote as PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd, func(ctx context.Context, d *deps) error {
				quote, lead, err := d.svc.GetQuote(ctx, args[0])
				if err != nil {
					return err
				}
				if quote.Kind != domain.QuoteProposal {
					return fmt.Errorf("quote %s is a %s, not a proposal", quote.ID, quote.Kind)
				}
				current, err := d.svc.Settings(ctx)
				if err != nil {
					return err
				}
				body, err := d.pdf.ProposalPDF(lead, quote, current.Settings)
				if err != nil {
					return err
				}
				if out == "" {
					out = quote.ID + ".pdf"
				}
				return writeOutput(cmd, out, body)
			})
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default QUOTE_ID.pdf)")
	return cmd
}

// --- data ---

func newExportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the whole database as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd, func(ctx context.Context, d *deps) error {
				raw, err := d.svc.Export(ctx)
				if err != nil {
					return err
				}
				if out == "" {
					out = "window-film-workflow-db-" + time.Now().UTC().Format("2006-01-02") + ".json"
				}
				return writeOutput(cmd, out, raw)
			})
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file, - for stdout (default window-film-workflow-db-DATE.json)")
	return cmd
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Replace the database with an exported JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading file: %w", err)
			}
			return withDeps(cmd, func(ctx context.Context, d *deps) error {
				res, err := d.svc.Import(ctx, raw)
				if err != nil {
					return err
				}
				printSuccess("Imported %d leads, %d tasks, %d quotes, %d messages", res.Leads, res.Tasks, res.Quotes, res.Messages)
				return nil
			})
		},
	}
}

func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or apply pricing settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd, func(ctx context.Context, d *deps) error {
				res, err := d.svc.Settings(ctx)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), res.Settings)
			})
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "apply FILE",
		Short: "Apply a YAML settings override on top of the defaults",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			next, err := settings.LoadFile(args[0])
			if err != nil {
				return err
			}
			return withDeps(cmd, func(ctx context.Context, d *deps) error {
				if _, err := d.svc.ApplySettings(ctx, next); err != nil {
					return err
				}
				printSuccess("Settings applied from %s", args[0])
				return nil
			})
		},
	})
	return cmd
}

// --- helpers ---

func writeOutput(cmd *cobra.Command, path string, body []byte) error {
	if path == "" || path == "-" {
		_, err := cmd.OutOrStdout().Write(body)
		return err
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	printSuccess("Wrote %s", path)
	return nil
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
