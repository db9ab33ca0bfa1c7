package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/joelkehle/codice-audit/internal/audit"
	"github.com/joelkehle/codice-audit/internal/mailer"
	"github.com/joelkehle/codice-audit/internal/survey"
)

const (
	rootMessage     = "Servidor de Auditoría CÓDICE en funcionamiento. Usa la ruta /submit-auditoria para POSTear datos."
	successMessage  = "Recomendación enviada con éxito."
	dispatchMessage = "Formulario recibido, pero hubo un error al enviar el correo automático. Te contactaremos manualmente."
)

// DefaultBodyLimit caps request bodies at 1 MiB.
const DefaultBodyLimit = 1 << 20

type Submitter interface {
	Submit(ctx context.Context, raw map[string]any) (audit.Receipt, error)
}

type Config struct {
	CORSOrigin string
	BodyLimit  int64
}

type Server struct {
	submitter Submitter
	cfg       Config
	logger    *zap.Logger
}

func NewServer(submitter Submitter, cfg Config, logger *zap.Logger) http.Handler {
	if cfg.CORSOrigin == "" {
		cfg.CORSOrigin = "*"
	}
	if cfg.BodyLimit <= 0 {
		cfg.BodyLimit = DefaultBodyLimit
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{submitter: submitter, cfg: cfg, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)
	r.Use(s.cors)
	r.Use(middleware.GetHead)

	r.Get("/", s.handleRoot)
	r.Post("/submit-auditoria", s.handleSubmit)
	return r
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(rootMessage))
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("codice-audit/httpapi").Start(r.Context(), "POST /submit-auditoria")
	defer span.End()

	var raw map[string]any
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.cfg.BodyLimit))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		s.logger.Warn("invalid request body", zap.Error(err))
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		s.logger.Warn("trailing data after request body")
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	receipt, err := s.submitter.Submit(ctx, raw)
	if err != nil {
		span.RecordError(err)
		var ve *survey.ValidationError
		if errors.As(err, &ve) {
			span.SetStatus(codes.Error, "validation")
			s.logger.Warn("validation failed", zap.String("kind", string(ve.Kind)), zap.String("message", ve.Error()))
			writeError(w, http.StatusBadRequest, ve.Error())
			return
		}
		span.SetStatus(codes.Error, "dispatch")
		fields := []zap.Field{zap.String("reference", receipt.Reference), zap.Error(err)}
		var de *mailer.DispatchError
		if errors.As(err, &de) {
			fields = append(fields, zap.String("step", de.Step), zap.Bool("partial", de.Outcome.Partial()))
		}
		s.logger.Error("email dispatch failed", fields...)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"message": dispatchMessage,
			"error":   err.Error(),
		})
		return
	}

	span.SetAttributes(attribute.String("audit.plan", receipt.Recommendation.Name))
	writeJSON(w, http.StatusOK, map[string]any{
		"message": successMessage,
		"plan":    receipt.Recommendation.Name,
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", s.cfg.CORSOrigin)
		if s.cfg.CORSOrigin != "*" {
			h.Add("Vary", "Origin")
		}
		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			h.Set("Access-Control-Allow-Methods", "GET,HEAD,POST,OPTIONS")
			allowHeaders := r.Header.Get("Access-Control-Request-Headers")
			if allowHeaders == "" {
				allowHeaders = "Content-Type"
			}
			h.Set("Access-Control-Allow-Headers", allowHeaders)
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
