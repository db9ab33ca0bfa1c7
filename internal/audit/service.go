// Package audit runs one survey submission through validation, scoring,
// rendering and email dispatch.
package audit

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/joelkehle/codice-audit/internal/mailer"
	"github.com/joelkehle/codice-audit/internal/notify"
	"github.com/joelkehle/codice-audit/internal/recommend"
	"github.com/joelkehle/codice-audit/internal/survey"
)

const pdfAttachmentName = "diagnostico-codice.pdf"

// Addressing holds the sender account and the administrator inbox.
type Addressing struct {
	From           string
	ClientFromName string
	AdminFromName  string
	AdminRecipient string
}

type Deliverer interface {
	Deliver(ctx context.Context, client, admin mailer.Message) (mailer.Outcome, error)
}

// Receipt is the result of a processed submission.
type Receipt struct {
	Reference      string
	Submission     survey.Submission
	Recommendation recommend.Recommendation
	Outcome        mailer.Outcome
}

type Service struct {
	catalog    *survey.Catalog
	deliverer  Deliverer
	addressing Addressing
	pdf        notify.PDFRenderer
	logger     *zap.Logger
	newRef     func() string
}

type Option func(*Service)

// WithPDFRenderer attaches a PDF copy of the client email when set.
func WithPDFRenderer(r notify.PDFRenderer) Option {
	return func(s *Service) { s.pdf = r }
}

func WithCatalog(c *survey.Catalog) Option {
	return func(s *Service) { s.catalog = c }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.logger = l }
}

func NewService(deliverer Deliverer, addressing Addressing, opts ...Option) *Service {
	if addressing.AdminRecipient == "" {
		addressing.AdminRecipient = addressing.From
	}
	s := &Service{
		catalog:    survey.DefaultCatalog(),
		deliverer:  deliverer,
		addressing: addressing,
		logger:     zap.NewNop(),
		newRef:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit validates raw, scores it and sends both notifications. Errors are
// *survey.ValidationError for bad input and *mailer.DispatchError when an
// email could not be sent; the Receipt is populated in the latter case.
func (s *Service) Submit(ctx context.Context, raw map[string]any) (Receipt, error) {
	ctx, span := otel.Tracer("codice-audit/audit").Start(ctx, "audit.Submit")
	defer span.End()

	sub, err := survey.Validate(raw)
	if err != nil {
		span.SetStatus(codes.Error, "validation")
		return Receipt{}, err
	}

	rec := recommend.Recommend(sub.Answers)
	ref := s.newRef()
	span.SetAttributes(attribute.String("audit.reference", ref), attribute.String("audit.plan", string(rec.Plan)))
	receipt := Receipt{Reference: ref, Submission: sub, Recommendation: rec}

	n, err := notify.Compose(sub, rec, s.catalog, ref)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "compose")
		return receipt, fmt.Errorf("compose notifications: %w", err)
	}

	client := mailer.Message{
		FromName: s.addressing.ClientFromName,
		From:     s.addressing.From,
		To:       sub.Email,
		Subject:  n.Client.Subject,
		Text:     n.Client.Text,
		HTML:     n.Client.HTML,
	}
	if s.pdf != nil {
		pdf, err := s.pdf.Render(ctx, n.Client.HTML)
		if err != nil {
			s.logger.Warn("pdf attachment skipped", zap.String("reference", ref), zap.Error(err))
		} else {
			client.Attachments = append(client.Attachments, mailer.Attachment{
				Name:        pdfAttachmentName,
				ContentType: "application/pdf",
				Data:        pdf,
			})
		}
	}
	admin := mailer.Message{
		FromName: s.addressing.AdminFromName,
		From:     s.addressing.From,
		To:       s.addressing.AdminRecipient,
		Subject:  n.Admin.Subject,
		Text:     n.Admin.Text,
		HTML:     n.Admin.HTML,
	}

	out, err := s.deliverer.Deliver(ctx, client, admin)
	receipt.Outcome = out
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "dispatch")
		return receipt, err
	}
	s.logger.Info("audit processed",
		zap.String("reference", ref),
		zap.String("plan", rec.Name),
		zap.String("email", sub.Email),
	)
	return receipt, nil
}
