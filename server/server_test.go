package server

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phosmap/layout"
)

func TestGetDocument(t *testing.T) {
	srv := New(layout.Fallback(), "", nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, DocumentPath, nil)
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	doc, err := layout.Decode(rec.Body.Bytes())
	require.NoError(t, err)
	assert.Equal(t, layout.Fallback().Boxes, doc.Boxes)
}

func TestPostReplacesServedDocument(t *testing.T) {
	srv := New(layout.Fallback(), "", nil)

	edited := layout.Fallback()
	edited.Boxes[0].X = 500
	body, err := layout.Encode(edited)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, DocumentPath, strings.NewReader(string(body)))
	srv.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, DocumentPath, nil)
	srv.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	doc, err := layout.Decode(rec.Body.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 500.0, doc.Boxes[0].X)
}

func TestPostRejectsMalformedLayout(t *testing.T) {
	srv := New(layout.Fallback(), "", nil)

	// Arrow endpoint resolves to nothing; the held document must survive.
	bad := `{"protbox_data": [], "arrows": [{"arrow_id": "a1", "source": "ghost", "target": "ghost"}]}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, DocumentPath, strings.NewReader(bad))
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, DocumentPath, nil)
	srv.Handler().ServeHTTP(rec, req)
	doc, err := layout.Decode(rec.Body.Bytes())
	require.NoError(t, err)
	assert.Equal(t, layout.Fallback().Boxes, doc.Boxes)
}

func TestPostPersistsToDisk(t *testing.T) {
	path := t.TempDir() + "/pathway_data.json"
	srv := New(layout.Fallback(), path, nil)

	body, err := layout.Encode(layout.Fallback())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, DocumentPath, strings.NewReader(string(body)))
	srv.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)

	_, err = os.Stat(path)
	require.NoError(t, err)
	doc, err := layout.Load(path)
	require.NoError(t, err)
	assert.Equal(t, layout.Fallback().Boxes, doc.Boxes)
}

func TestPostPersistFailureKeepsServedDocument(t *testing.T) {
	// A path inside a directory that does not exist makes the write fail.
	path := t.TempDir() + "/missing/pathway_data.json"
	srv := New(layout.Fallback(), path, nil)

	edited := layout.Fallback()
	edited.Boxes[0].X = 500
	body, err := layout.Encode(edited)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, DocumentPath, strings.NewReader(string(body)))
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	// The served document must still be the one from before the failed post.
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, DocumentPath, nil)
	srv.Handler().ServeHTTP(rec, req)
	doc, err := layout.Decode(rec.Body.Bytes())
	require.NoError(t, err)
	assert.Equal(t, layout.Fallback().Boxes[0].X, doc.Boxes[0].X)
}
