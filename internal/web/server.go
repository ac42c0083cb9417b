package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"skusort/internal/config"
	"skusort/internal/pipeline"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var errMissingFile = errors.New("missing upload")

type Runner interface {
	Run(ctx context.Context, in pipeline.Input) (pipeline.Result, error)
}

type Server struct {
	cfg    config.Config
	runner Runner
	log    *slog.Logger
}

func NewServer(cfg config.Config, runner Runner, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{cfg: cfg, runner: runner, log: log}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Post("/preview", s.handlePreview)
	r.Post("/export", s.handleExport)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	return r
}

func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.HTTPAddr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", s.cfg.HTTPAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	s.render(w, http.StatusOK, pageData{})
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	res, err := s.runUpload(w, r)
	if err != nil {
		status, msg := s.classify(r, err)
		s.render(w, status, pageData{Error: msg})
		return
	}

	data := pageData{Result: true, Derived: s.cfg.ExportDerived, NameHeader: s.cfg.OutputNameHeader, Stats: res.Stats}
	for i, row := range res.Rows {
		data.Rows = append(data.Rows, previewRow{
			Pos:     i + 1,
			SKU:     row.SKU,
			Name:    row.Name(),
			Missing: row.DisplayName == nil,
			Product: res.Keys[i].Product,
			Color:   res.Keys[i].Color,
			Size:    res.Keys[i].Size,
		})
	}
	s.render(w, http.StatusOK, data)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	res, err := s.runUpload(w, r)
	if err != nil {
		status, msg := s.classify(r, err)
		http.Error(w, msg, status)
		return
	}

	name := s.cfg.OutputFileName
	if name == "" {
		name = "sorted.xlsx"
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename*=UTF-8''%s", url.PathEscape(name)))
	w.Header().Set("X-Trace-Id", res.TraceID)
	_, _ = w.Write(res.XLSX)
}

func (s *Server) runUpload(w http.ResponseWriter, r *http.Request) (pipeline.Result, error) {
	limit := s.cfg.MaxUploadBytes()
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(limit); err != nil {
		return pipeline.Result{}, err
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	pdfBlob, err := readUpload(r, "pdf")
	if err != nil {
		return pipeline.Result{}, err
	}
	lookupBlob, err := readUpload(r, "lookup")
	if err != nil {
		return pipeline.Result{}, err
	}

	return s.runner.Run(r.Context(), pipeline.Input{PDF: pdfBlob, Lookup: lookupBlob})
}

func readUpload(r *http.Request, field string) ([]byte, error) {
	file, _, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, fmt.Errorf("%w: %s", errMissingFile, field)
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}

func (s *Server) classify(r *http.Request, err error) (int, string) {
	var cfgErr *pipeline.ConfigError
	var tooBig *http.MaxBytesError
	reqID := middleware.GetReqID(r.Context())

	switch {
	case errors.As(err, &cfgErr):
		s.log.Warn("lookup configuration error", "request", reqID, "missing", cfgErr.Missing, "found", cfgErr.Found)
		return http.StatusUnprocessableEntity, cfgErr.Error()
	case errors.As(err, &tooBig):
		return http.StatusRequestEntityTooLarge, fmt.Sprintf("upload exceeds %d bytes", tooBig.Limit)
	case errors.Is(err, errMissingFile),
		errors.Is(err, pipeline.ErrNoLines),
		errors.Is(err, pipeline.ErrMalformedPDF),
		errors.Is(err, pipeline.ErrMalformedLookup),
		errors.Is(err, http.ErrNotMultipart):
		s.log.Warn("rejected upload", "request", reqID, "error", err)
		return http.StatusBadRequest, err.Error()
	default:
		s.log.Error("run failed", "request", reqID, "error", err)
		return http.StatusInternalServerError, "internal error"
	}
}
