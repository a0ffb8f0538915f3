package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"filmleads_backend/internal/events"
	"filmleads_backend/internal/leads/domain"
	"filmleads_backend/internal/leads/render"
	"filmleads_backend/internal/leads/transport"
	"filmleads_backend/internal/pricing"
	"filmleads_backend/internal/store"
	"filmleads_backend/platform/apperr"
	"filmleads_backend/platform/logger"
)

var testNow = time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type seqIDs struct {
	mu sync.Mutex
	n  int
}

func (g *seqIDs) New(prefix string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s_%d", prefix, g.n)
}

type fakeSender struct {
	err  error
	sent []string
}

func (f *fakeSender) Send(_ context.Context, to, subject, _ string) error {
	f.sent = append(f.sent, to+"|"+subject)
	return f.err
}

func newTestService(t *testing.T) (*Service, *store.Memory, *events.InMemoryBus) {
	t.Helper()
	mem := store.NewMemory()
	bus := events.NewInMemoryBus(logger.Discard())
	svc := New(store.NewCodec(mem, logger.Discard(), nil), bus, logger.Discard())
	svc.SetClock(fixedClock{t: testNow})
	svc.SetIDGenerator(&seqIDs{})
	return svc, mem, bus
}

func f64(v float64) *float64 { return &v }

func TestGenerateBallparkQuote_SeedLead(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	q, err := svc.GenerateBallparkQuote(ctx, "lead_seed_1")
	if err != nil {
		t.Fatalf("generate ballpark: %v", err)
	}
	if q.Kind != domain.QuoteBallpark || q.Outputs.Range == nil {
		t.Fatalf("expected ballpark with range, got %+v", q)
	}
	if q.Outputs.Range.Low != 1836.36 || q.Outputs.Range.High != 2266.67 {
		t.Fatalf("unexpected range %v-%v", q.Outputs.Range.Low, q.Outputs.Range.High)
	}
	if !strings.HasPrefix(q.Outputs.Text, "Ballpark for 180 sqft in Baltimore is $1,836.36–$2,266.67 installed.") {
		t.Fatalf("unexpected text %q", q.Outputs.Text)
	}
	if q.Inputs.Complexity != "simple" || q.Inputs.MeasuredSqft == nil || *q.Inputs.MeasuredSqft != 180 {
		t.Fatalf("unexpected inputs %+v", q.Inputs)
	}

	lead, err := svc.GetLead(ctx, "lead_seed_1")
	if err != nil {
		t.Fatalf("get lead: %v", err)
	}
	if lead.Status != domain.StatusQuoted {
		t.Fatalf("expected QUOTED, got %s", lead.Status)
	}
	last := lead.History[len(lead.History)-1]
	if last.Type != domain.EntryQuoteCreated || last.Detail["quoteId"] != q.ID {
		t.Fatalf("unexpected history entry %+v", last)
	}
	if !lead.UpdatedAt.Equal(testNow) {
		t.Fatalf("expected updatedAt %v, got %v", testNow, lead.UpdatedAt)
	}
}

func TestGenerateBallparkQuote_MissingSqftLeavesStoreUntouched(t *testing.T) {
	svc, mem, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.GenerateBallparkQuote(ctx, "lead_seed_2")
	if !errors.Is(err, pricing.ErrMissingSqft) {
		t.Fatalf("expected missing sqft, got %v", err)
	}
	if apperr.GetKind(err) != apperr.KindUnprocessable || err.Error() != CodeMissingSqft {
		t.Fatalf("expected unprocessable missing_sqft, got %v", err)
	}
	if _, err := mem.Load(ctx); !errors.Is(err, store.ErrNoData) {
		t.Fatalf("expected nothing saved, got %v", err)
	}

	lead, _ := svc.GetLead(ctx, "lead_seed_2")
	if lead.Status != domain.StatusQualifying || len(lead.History) != 1 {
		t.Fatalf("expected lead unchanged, got %s with %d entries", lead.Status, len(lead.History))
	}
}

func TestGenerateProposal(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	q, err := svc.GenerateProposal(ctx, "lead_seed_1")
	if err != nil {
		t.Fatalf("generate proposal: %v", err)
	}
	if q.Kind != domain.QuoteProposal || q.Outputs.Computed == nil {
		t.Fatalf("expected proposal with breakdown, got %+v", q)
	}
	if q.Outputs.Computed.Total != 2020 {
		t.Fatalf("expected total 2020, got %v", q.Outputs.Computed.Total)
	}
	if q.Inputs.GrossMarginTier != "better" {
		t.Fatalf("expected better tier, got %q", q.Inputs.GrossMarginTier)
	}
	if !strings.Contains(q.Outputs.ProposalHTML, "$2,020.00") {
		t.Fatalf("expected total in proposal document")
	}

	lead, _ := svc.GetLead(ctx, "lead_seed_1")
	if lead.Status != domain.StatusQuoted || lead.History[len(lead.History)-1].Type != domain.EntryProposalCreated {
		t.Fatalf("expected QUOTED with PROPOSAL_CREATED, got %s", lead.Status)
	}

	if _, err := svc.GenerateProposal(ctx, "lead_seed_2"); !errors.Is(err, pricing.ErrMissingSqft) {
		t.Fatalf("expected missing sqft for seed 2, got %v", err)
	}
}

func TestGenerateProposal_DoesNotMoveQualifyingLead(t *testing.T) {
	svc, mem, _ := newTestService(t)
	ctx := context.Background()

	db := domain.Seed()
	db.Leads[1].SqftEstimate = f64(1000)
	raw, _ := store.Encode(db)
	_ = mem.Save(ctx, raw)

	if _, err := svc.GenerateProposal(ctx, "lead_seed_2"); err != nil {
		t.Fatalf("generate proposal: %v", err)
	}
	lead, _ := svc.GetLead(ctx, "lead_seed_2")
	if lead.Status != domain.StatusQualifying {
		t.Fatalf("expected QUALIFYING to be kept, got %s", lead.Status)
	}
}

func TestCreateDefaultFollowUps_Idempotent(t *testing.T) {
	svc, _, bus := newTestService(t)
	ctx := context.Background()

	var mu sync.Mutex
	var published []events.FollowUpsCreated
	bus.Subscribe(events.NameFollowUpsCreated, events.HandlerFunc(func(_ context.Context, e events.Event) error {
		mu.Lock()
		defer mu.Unlock()
		published = append(published, e.(events.FollowUpsCreated))
		return nil
	}))

	first, err := svc.CreateDefaultFollowUps(ctx, "lead_seed_1")
	if err != nil {
		t.Fatalf("create follow-ups: %v", err)
	}
	if first.Created != 3 {
		t.Fatalf("expected 3 tasks, got %d", first.Created)
	}
	if !first.Tasks[0].DueAt.Equal(testNow.Add(time.Hour)) || !first.Tasks[2].DueAt.Equal(testNow.Add(72*time.Hour)) {
		t.Fatalf("unexpected due times %v %v", first.Tasks[0].DueAt, first.Tasks[2].DueAt)
	}

	second, err := svc.CreateDefaultFollowUps(ctx, "lead_seed_1")
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if second.Created != 0 || second.Tasks == nil {
		t.Fatalf("expected no new tasks, got %+v", second)
	}

	tasks, _ := svc.ListTasks(ctx, "lead_seed_1")
	if len(tasks.Items) != 3 || tasks.Items[0].Type != domain.TaskFollowUp1H {
		t.Fatalf("unexpected tasks %+v", tasks.Items)
	}

	lead, _ := svc.GetLead(ctx, "lead_seed_1")
	if lead.Status != domain.StatusNew {
		t.Fatalf("follow-ups must not change status, got %s", lead.Status)
	}
	if n := len(lead.History); n != 2 {
		t.Fatalf("expected one FOLLOWUPS_CREATED entry, got %d entries", n)
	}

	bus.Wait()
	mu.Lock()
	defer mu.Unlock()
	if len(published) != 1 || len(published[0].Tasks) != 3 {
		t.Fatalf("expected one event with 3 tasks, got %+v", published)
	}
}

func TestCreateDefaultFollowUps_ConcurrentCallers(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.CreateDefaultFollowUps(ctx, "lead_seed_1")
		}()
	}
	wg.Wait()

	tasks, err := svc.ListTasks(ctx, "lead_seed_1")
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	if len(tasks.Items) != 3 {
		t.Fatalf("expected exactly 3 tasks, got %d", len(tasks.Items))
	}
}

func TestDraftReply_SMSWithBallpark(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	res, err := svc.DraftReply(ctx, "lead_seed_1")
	if err != nil {
		t.Fatalf("draft reply: %v", err)
	}
	msg := res.Message
	if msg.Channel != domain.ChannelSMS || msg.Status != domain.MessageDraft {
		t.Fatalf("expected sms draft, got %s/%s", msg.Channel, msg.Status)
	}
	if msg.To == nil || *msg.To != "+14105550123" || msg.Subject != nil {
		t.Fatalf("unexpected recipient %v subject %v", msg.To, msg.Subject)
	}
	if !strings.HasPrefix(msg.Body, "Hi Avery—thanks for reaching out. Ballpark for 180 sqft") {
		t.Fatalf("unexpected body %q", msg.Body)
	}
	if !strings.HasSuffix(msg.Body, "book a quick measure to confirm glass type.") {
		t.Fatalf("expected range next step, got %q", msg.Body)
	}
	if res.Quote == nil || res.Quote.Kind != domain.QuoteBallpark {
		t.Fatalf("expected generated ballpark quote")
	}

	lead, _ := svc.GetLead(ctx, "lead_seed_1")
	types := make([]string, 0, len(lead.History))
	for _, h := range lead.History {
		types = append(types, h.Type)
	}
	want := []string{domain.EntryLeadCreated, domain.EntryQuoteCreated, domain.EntryMessageDrafted}
	if strings.Join(types, ",") != strings.Join(want, ",") {
		t.Fatalf("unexpected history %v", types)
	}
	if lead.Status != domain.StatusQuoted {
		t.Fatalf("expected draft with ballpark to latch QUOTED, got %s", lead.Status)
	}
	if !lead.History[2].At.After(lead.History[1].At) {
		t.Fatalf("expected strictly increasing history times")
	}

	quotes, _ := svc.ListQuotes(ctx, "lead_seed_1")
	msgs, _ := svc.ListMessages(ctx, "lead_seed_1")
	if len(quotes.Items) != 1 || len(msgs.Items) != 1 {
		t.Fatalf("expected 1 quote and 1 message, got %d and %d", len(quotes.Items), len(msgs.Items))
	}
}

func TestDraftReply_NoSqftUsesDiscoveryQuestion(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	res, err := svc.DraftReply(ctx, "lead_seed_2")
	if err != nil {
		t.Fatalf("draft reply: %v", err)
	}
	if res.Quote != nil {
		t.Fatalf("expected no quote")
	}
	if !strings.Contains(res.Message.Body, render.DiscoveryQuestion) {
		t.Fatalf("expected discovery question, got %q", res.Message.Body)
	}
	if !strings.HasSuffix(res.Message.Body, "recommend the right film.") {
		t.Fatalf("expected walkthrough next step, got %q", res.Message.Body)
	}
	lead, _ := svc.GetLead(ctx, "lead_seed_2")
	if lead.Status != domain.StatusQualifying {
		t.Fatalf("expected status unchanged, got %s", lead.Status)
	}
}

func TestDraftReply_EmailAndNoteChannels(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	emailLead, err := svc.CreateLead(ctx, transport.CreateLeadRequest{Name: "Sam Lee", Email: "Sam@Example.com"})
	if err != nil {
		t.Fatalf("create lead: %v", err)
	}
	res, err := svc.DraftReply(ctx, emailLead.ID)
	if err != nil {
		t.Fatalf("draft reply: %v", err)
	}
	if res.Message.Channel != domain.ChannelEmail || res.Message.Subject == nil || *res.Message.Subject != "Window Film Estimate — Your Site" {
		t.Fatalf("unexpected email draft %+v", res.Message)
	}
	if res.Message.To == nil || *res.Message.To != "sam@example.com" {
		t.Fatalf("unexpected recipient %v", res.Message.To)
	}
	if !strings.HasPrefix(res.Message.Body, "Hi Sam Lee,\n\n"+render.DiscoveryQuestion) {
		t.Fatalf("unexpected body %q", res.Message.Body)
	}

	noteLead, _ := svc.CreateLead(ctx, transport.CreateLeadRequest{City: "Towson"})
	res, err = svc.DraftReply(ctx, noteLead.ID)
	if err != nil {
		t.Fatalf("draft reply: %v", err)
	}
	if res.Message.Channel != domain.ChannelNote || res.Message.To != nil || res.Message.Body != render.DiscoveryQuestion {
		t.Fatalf("unexpected note draft %+v", res.Message)
	}
}

func TestCreateLead_Normalizes(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateLead(ctx, transport.CreateLeadRequest{
		Name:         "  Jo   Park ",
		Phone:        "(410) 555-0123",
		Email:        "not-an-email",
		City:         "Baltimore",
		State:        "md",
		SqftEstimate: f64(240),
		Goals:        []string{"heat", " Heat ", "privacy", ""},
		Tags:         []string{"web", "web"},
	})
	if err != nil {
		t.Fatalf("create lead: %v", err)
	}

	if created.ID != "lead_1" || created.Status != domain.StatusNew || created.Source != domain.SourceManual {
		t.Fatalf("unexpected identity %s/%s/%s", created.ID, created.Status, created.Source)
	}
	if created.Phone() != "+14105550123" {
		t.Fatalf("expected normalized phone, got %q", created.Phone())
	}
	if created.Contact.Email != nil {
		t.Fatalf("expected invalid email to be dropped")
	}
	if created.Name() != "Jo Park" || created.Location.State == nil || *created.Location.State != "MD" {
		t.Fatalf("unexpected name or state %q %v", created.Name(), created.Location.State)
	}
	if created.JobType != domain.JobBoth || created.FilmCategory != pricing.FilmUnsure {
		t.Fatalf("unexpected defaults %s/%s", created.JobType, created.FilmCategory)
	}
	if len(created.Goals) != 2 || len(created.Tags) != 1 {
		t.Fatalf("expected deduplicated goals and tags, got %v %v", created.Goals, created.Tags)
	}
	if !created.CreatedAt.Equal(testNow) || len(created.History) != 1 || created.History[0].By != domain.ActorUser {
		t.Fatalf("unexpected creation record %+v", created.History)
	}
	if created.Score == 0 || created.NextBestAction == "" {
		t.Fatalf("expected response to be scored")
	}

	list, err := svc.ListLeads(ctx)
	if err != nil {
		t.Fatalf("list leads: %v", err)
	}
	if list.Total != 3 || list.Items[0].ID != "lead_1" {
		t.Fatalf("expected new lead first of 3, got %d starting with %s", list.Total, list.Items[0].ID)
	}
}

func TestUnknownLeadIsNotFound(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	checks := map[string]error{}
	_, checks["ballpark"] = svc.GenerateBallparkQuote(ctx, "lead_missing")
	_, checks["proposal"] = svc.GenerateProposal(ctx, "lead_missing")
	_, checks["draft"] = svc.DraftReply(ctx, "lead_missing")
	_, checks["followups"] = svc.CreateDefaultFollowUps(ctx, "lead_missing")
	_, checks["get"] = svc.GetLead(ctx, "lead_missing")
	_, checks["tasks"] = svc.ListTasks(ctx, "lead_missing")

	for name, err := range checks {
		if apperr.GetKind(err) != apperr.KindNotFound || !errors.Is(err, ErrLeadNotFound) {
			t.Fatalf("%s: expected not found, got %v", name, err)
		}
	}
}

func TestSendMessage(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	sender := &fakeSender{}
	svc.SetEmailSender(sender)

	lead, _ := svc.CreateLead(ctx, transport.CreateLeadRequest{Email: "sam@example.com", City: "Towson"})
	draft, _ := svc.DraftReply(ctx, lead.ID)

	sent, err := svc.SendMessage(ctx, draft.Message.ID)
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if sent.Status != domain.MessageSent || sent.SentAt == nil {
		t.Fatalf("expected SENT with timestamp, got %+v", sent)
	}
	if len(sender.sent) != 1 || sender.sent[0] != "sam@example.com|Window Film Estimate — Towson" {
		t.Fatalf("unexpected deliveries %v", sender.sent)
	}

	if _, err := svc.SendMessage(ctx, draft.Message.ID); apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected resend to be rejected, got %v", err)
	}

	smsDraft, _ := svc.DraftReply(ctx, "lead_seed_1")
	if _, err := svc.SendMessage(ctx, smsDraft.Message.ID); apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected sms send to be rejected, got %v", err)
	}
}

func TestSendMessage_FailureIsRecorded(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	svc.SetEmailSender(&fakeSender{err: errors.New("smtp down")})

	lead, _ := svc.CreateLead(ctx, transport.CreateLeadRequest{Email: "sam@example.com"})
	draft, _ := svc.DraftReply(ctx, lead.ID)

	msg, err := svc.SendMessage(ctx, draft.Message.ID)
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if msg.Status != domain.MessageFailed || msg.Error != "smtp down" {
		t.Fatalf("expected FAILED with error, got %+v", msg)
	}
	detail, _ := svc.GetLead(ctx, lead.ID)
	if detail.History[len(detail.History)-1].Type != domain.EntryMessageSent {
		t.Fatalf("expected MESSAGE_SENT entry")
	}
}

type blockingSender struct {
	started chan struct{}
	release chan struct{}
}

func (b *blockingSender) Send(ctx context.Context, _, _, _ string) error {
	close(b.started)
	select {
	case <-b.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func TestSendMessage_DeliveryDoesNotBlockCommands(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	sender := &blockingSender{started: make(chan struct{}), release: make(chan struct{})}
	svc.SetEmailSender(sender)

	lead, _ := svc.CreateLead(ctx, transport.CreateLeadRequest{Email: "sam@example.com"})
	draft, _ := svc.DraftReply(ctx, lead.ID)

	type result struct {
		msg domain.Message
		err error
	}
	done := make(chan result, 1)
	go func() {
		msg, err := svc.SendMessage(ctx, draft.Message.ID)
		done <- result{msg, err}
	}()
	<-sender.started

	created := make(chan error, 1)
	go func() {
		_, err := svc.CreateLead(ctx, transport.CreateLeadRequest{Name: "Jo", City: "Towson"})
		created <- err
	}()
	select {
	case err := <-created:
		if err != nil {
			t.Fatalf("create during send: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("expected commands to proceed while a message is being delivered")
	}

	if _, err := svc.SendMessage(ctx, draft.Message.ID); apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected second send of an in-flight draft to be rejected, got %v", err)
	}

	close(sender.release)
	res := <-done
	if res.err != nil || res.msg.Status != domain.MessageSent {
		t.Fatalf("expected SENT, got %+v %v", res.msg, res.err)
	}
}

func TestSendMessage_ImportDuringDeliveryWins(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	sender := &blockingSender{started: make(chan struct{}), release: make(chan struct{})}
	svc.SetEmailSender(sender)

	lead, _ := svc.CreateLead(ctx, transport.CreateLeadRequest{Email: "sam@example.com"})
	draft, _ := svc.DraftReply(ctx, lead.ID)

	done := make(chan error, 1)
	go func() {
		_, err := svc.SendMessage(ctx, draft.Message.ID)
		done <- err
	}()
	<-sender.started

	if _, err := svc.Import(ctx, []byte(`{"version":1,"leads":[]}`)); err != nil {
		t.Fatalf("import: %v", err)
	}
	close(sender.release)

	if err := <-done; apperr.GetKind(err) != apperr.KindNotFound {
		t.Fatalf("expected not found after the draft was replaced, got %v", err)
	}
	if _, err := svc.SendMessage(ctx, draft.Message.ID); apperr.GetKind(err) != apperr.KindNotFound {
		t.Fatalf("expected claim to be released, got %v", err)
	}
}

func TestPreviewQuote_DoesNotPersist(t *testing.T) {
	svc, mem, _ := newTestService(t)
	ctx := context.Background()

	res, err := svc.PreviewQuote(ctx, "lead_seed_2", transport.PreviewRequest{
		MeasuredSqft:   f64(1000),
		IncludeRemoval: boolPtr(true),
	})
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if res.Quote.Total != 16570 {
		t.Fatalf("expected 16570, got %v", res.Quote.Total)
	}
	if _, err := mem.Load(ctx); !errors.Is(err, store.ErrNoData) {
		t.Fatalf("expected preview not to save")
	}

	if _, err := svc.PreviewQuote(ctx, "lead_seed_2", transport.PreviewRequest{}); !errors.Is(err, pricing.ErrMissingSqft) {
		t.Fatalf("expected missing sqft, got %v", err)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.GenerateBallparkQuote(ctx, "lead_seed_1"); err != nil {
		t.Fatalf("ballpark: %v", err)
	}
	raw, err := svc.Export(ctx)
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	other, _, _ := newTestService(t)
	res, err := other.Import(ctx, raw)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if res.Leads != 2 || res.Quotes != 1 {
		t.Fatalf("unexpected import summary %+v", res)
	}
	lead, err := other.GetLead(ctx, "lead_seed_1")
	if err != nil || lead.Status != domain.StatusQuoted {
		t.Fatalf("expected imported QUOTED lead, got %v %v", lead.Status, err)
	}
}

func TestImportRejectsInvalidInput(t *testing.T) {
	svc, mem, _ := newTestService(t)
	ctx := context.Background()

	for _, raw := range []string{"not json", "[]", `{"settings":{"gross_margin_targets":{"best":1.2}}}`,
		`{"settings":{"removal":{"minimum":-5}}}`,
		`{"settings":{"adders":{"coi_admin":-75}}}`,
	} {
		if _, err := svc.Import(ctx, []byte(raw)); apperr.GetKind(err) != apperr.KindValidation {
			t.Fatalf("expected validation error for %q, got %v", raw, err)
		}
	}
	if _, err := mem.Load(ctx); !errors.Is(err, store.ErrNoData) {
		t.Fatalf("expected store untouched")
	}
}

func TestImportIgnoresStoredScores(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	raw := `{"version":1,"leads":[{"id":"lead_x","score":99,"scoreReasons":["stale"],"updatedAt":"2026-01-01T00:00:00Z"}]}`
	if _, err := svc.Import(ctx, []byte(raw)); err != nil {
		t.Fatalf("import: %v", err)
	}
	lead, err := svc.GetLead(ctx, "lead_x")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if lead.Score != 0 || lead.Reasons[0] != "Missing contact details." {
		t.Fatalf("expected recomputed score, got %d %v", lead.Score, lead.Reasons)
	}
}

func boolPtr(v bool) *bool { return &v }
