// Package server exposes the layout document over HTTP: the load endpoint
// the viewer contract specifies and an export endpoint that accepts an
// edited layout back. The server never shares live session state; it serves
// snapshots guarded by its own lock.
package server

import (
	"context"
	"io"
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"phosmap/diagram"
	"phosmap/layout"
)

// DocumentPath is the route the pathway viewer loads its document from.
const DocumentPath = "/data/pathway_data.json"

// Server serves and accepts pathway layout documents.
type Server struct {
	echo *echo.Echo
	log  *zap.Logger

	mu   sync.RWMutex
	doc  *diagram.Document
	path string // where accepted uploads are persisted, empty to disable
}

// New creates a server holding the given document. When path is non-empty,
// accepted uploads are also written there.
func New(doc *diagram.Document, path string, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		echo: echo.New(),
		log:  log,
		doc:  doc,
		path: path,
	}
	s.echo.HideBanner = true
	s.echo.GET(DocumentPath, s.getDocument)
	s.echo.POST(DocumentPath, s.putDocument)
	return s
}

// Handler returns the HTTP handler, usable directly in tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start listens on addr until Shutdown.
func (s *Server) Start(addr string) error {
	s.log.Info("serving pathway document", zap.String("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) getDocument(c echo.Context) error {
	s.mu.RLock()
	snapshot := s.doc.Clone()
	s.mu.RUnlock()

	data, err := layout.Encode(snapshot)
	if err != nil {
		s.log.Error("encode failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "encode failed")
	}
	return c.JSONBlob(http.StatusOK, data)
}

func (s *Server) putDocument(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable body")
	}
	doc, err := layout.Decode(body)
	if err != nil {
		s.log.Warn("rejected malformed layout", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	// Persist before swapping so a failed write leaves the served document
	// exactly as the client last saw it.
	if s.path != "" {
		if err := layout.Save(s.path, doc); err != nil {
			s.log.Error("persist failed", zap.String("path", s.path), zap.Error(err))
			return echo.NewHTTPError(http.StatusInternalServerError, "persist failed")
		}
	}
	s.mu.Lock()
	s.doc = doc
	s.mu.Unlock()
	return c.NoContent(http.StatusNoContent)
}
