package mailer

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	StepClient = "client"
	StepAdmin  = "admin"
)

// Outcome records which of the two notifications went out.
type Outcome struct {
	ClientSent bool
	AdminSent  bool
}

// Partial reports whether the client email went out but the admin one did not.
func (o Outcome) Partial() bool {
	return o.ClientSent && !o.AdminSent
}

// DispatchError is returned when either send fails. A partial outcome is
// still an error: the submission is not stored anywhere, so the caller
// must learn that the administrator was never told.
type DispatchError struct {
	Step    string
	Outcome Outcome
	Err     error
}

func (e *DispatchError) Error() string {
	return e.Err.Error()
}

func (e *DispatchError) Unwrap() error {
	return e.Err
}

// Dispatcher sends the client email and then, only if that succeeded, the
// admin email. Nothing is retried.
type Dispatcher struct {
	sender Sender
	logger *zap.Logger
}

func NewDispatcher(sender Sender, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{sender: sender, logger: logger}
}

func (d *Dispatcher) Deliver(ctx context.Context, client, admin Message) (Outcome, error) {
	ctx, span := otel.Tracer("codice-audit/mailer").Start(ctx, "mailer.Deliver")
	defer span.End()

	var out Outcome
	if err := d.sender.Send(ctx, client); err != nil {
		return out, d.fail(span, StepClient, out, err)
	}
	out.ClientSent = true
	d.logger.Info("client notification sent", zap.String("to", client.To))

	if err := d.sender.Send(ctx, admin); err != nil {
		return out, d.fail(span, StepAdmin, out, err)
	}
	out.AdminSent = true
	d.logger.Info("admin notification sent", zap.String("to", admin.To))

	span.SetAttributes(attribute.Bool("mail.client_sent", true), attribute.Bool("mail.admin_sent", true))
	return out, nil
}

func (d *Dispatcher) fail(span trace.Span, step string, out Outcome, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, "send "+step+" email")
	span.SetAttributes(
		attribute.String("mail.failed_step", step),
		attribute.Bool("mail.client_sent", out.ClientSent),
		attribute.Bool("mail.admin_sent", out.AdminSent),
	)
	d.logger.Error("notification dispatch failed",
		zap.String("step", step),
		zap.Bool("partial", out.Partial()),
		zap.Error(err),
	)
	return &DispatchError{Step: step, Outcome: out, Err: fmt.Errorf("send %s email: %w", step, err)}
}
