package audit

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/joelkehle/codice-audit/internal/mailer"
	"github.com/joelkehle/codice-audit/internal/recommend"
	"github.com/joelkehle/codice-audit/internal/survey"
)

type fakeSender struct {
	sent []mailer.Message
	err  error
}

func (f *fakeSender) Send(_ context.Context, msg mailer.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

type fakePDF struct {
	out []byte
	err error
}

func (f fakePDF) Render(context.Context, string) ([]byte, error) {
	return f.out, f.err
}

func form(letter string) map[string]any {
	raw := map[string]any{
		"nombre":   " Luis <dev> ",
		"contacto": "55 0000 0000",
		"email":    "luis@example.com",
		"edad":     "3",
	}
	for id := 1; id <= survey.QuestionCount; id++ {
		raw[survey.QuestionKey(id)] = letter
	}
	return raw
}

func newTestService(t *testing.T, sender mailer.Sender, opts ...Option) *Service {
	t.Helper()
	opts = append([]Option{WithLogger(zaptest.NewLogger(t))}, opts...)
	svc := NewService(mailer.NewDispatcher(sender, zaptest.NewLogger(t)), Addressing{
		From:           "bot@codice.test",
		ClientFromName: "Auditoría CÓDICE",
		AdminFromName:  "Notificación CÓDICE Server",
	}, opts...)
	svc.newRef = func() string { return "ref-test" }
	return svc
}

func TestSubmitSendsBothEmails(t *testing.T) {
	sender := &fakeSender{}
	svc := newTestService(t, sender)

	receipt, err := svc.Submit(context.Background(), form("c"))
	require.NoError(t, err)

	assert.Equal(t, "ref-test", receipt.Reference)
	assert.Equal(t, recommend.PlanEstrategico, receipt.Recommendation.Plan)
	assert.Equal(t, "Luis &lt;dev&gt;", receipt.Submission.Name)
	assert.Equal(t, mailer.Outcome{ClientSent: true, AdminSent: true}, receipt.Outcome)

	require.Len(t, sender.sent, 2)
	client, admin := sender.sent[0], sender.sent[1]
	assert.Equal(t, "luis@example.com", client.To)
	assert.Equal(t, "Auditoría CÓDICE", client.FromName)
	assert.Equal(t, "bot@codice.test", admin.To, "admin recipient defaults to the sender account")
	assert.Equal(t, "Notificación CÓDICE Server", admin.FromName)
	assert.Contains(t, admin.Subject, "CÓDICE ESTRATÉGICO")
	assert.Contains(t, admin.Text, "ref-test")
	assert.Empty(t, client.Attachments)
}

func TestSubmitValidationErrorSendsNothing(t *testing.T) {
	sender := &fakeSender{}
	svc := newTestService(t, sender)

	raw := form("a")
	raw["email"] = "bad-email"
	_, err := svc.Submit(context.Background(), raw)

	var ve *survey.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, survey.KindInvalidEmailFormat, ve.Kind)
	assert.Empty(t, sender.sent)
}

func TestSubmitDispatchFailure(t *testing.T) {
	sender := &fakeSender{err: errors.New("dial tcp: i/o timeout")}
	svc := newTestService(t, sender)

	receipt, err := svc.Submit(context.Background(), form("a"))
	var de *mailer.DispatchError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, mailer.StepClient, de.Step)
	assert.Equal(t, recommend.PlanStarter, receipt.Recommendation.Plan)
	assert.False(t, receipt.Outcome.ClientSent)
}

func TestSubmitAttachesPDF(t *testing.T) {
	sender := &fakeSender{}
	svc := newTestService(t, sender, WithPDFRenderer(fakePDF{out: []byte("%PDF-1.7")}))

	_, err := svc.Submit(context.Background(), form("b"))
	require.NoError(t, err)
	require.Len(t, sender.sent, 2)
	require.Len(t, sender.sent[0].Attachments, 1)
	assert.Equal(t, pdfAttachmentName, sender.sent[0].Attachments[0].Name)
	assert.Empty(t, sender.sent[1].Attachments)
}

func TestSubmitSendsWithoutPDFWhenRenderFails(t *testing.T) {
	sender := &fakeSender{}
	svc := newTestService(t, sender, WithPDFRenderer(fakePDF{err: errors.New("chrome not found")}))

	_, err := svc.Submit(context.Background(), form("b"))
	require.NoError(t, err)
	require.Len(t, sender.sent, 2)
	assert.Empty(t, sender.sent[0].Attachments)
}

func TestSubmitUsesConfiguredAdminRecipient(t *testing.T) {
	sender := &fakeSender{}
	svc := NewService(mailer.NewDispatcher(sender, nil), Addressing{
		From:           "bot@codice.test",
		AdminRecipient: "ventas@codice.test",
	})

	_, err := svc.Submit(context.Background(), form("a"))
	require.NoError(t, err)
	require.Len(t, sender.sent, 2)
	assert.Equal(t, "ventas@codice.test", sender.sent[1].To)
}
