package handlers

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wiseaidev/stegano/config"
	"github.com/wiseaidev/stegano/models"
	"github.com/wiseaidev/stegano/pngparser"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	router, err := NewRouter(config.Default(), logger)
	require.NoError(t, err)
	return router
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 8, 8))))
	return buf.Bytes()
}

type upload struct {
	field, name string
	data        []byte
}

func multipartRequest(t *testing.T, path string, fields map[string]string, files ...upload) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, f := range files {
		part, err := w.CreateFormFile(f.field, f.name)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestHealthCheck(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestRequestIDIsPropagated(t *testing.T) {
	router := newTestRouter(t)
	id := "1b4e28ba-2fa1-11d2-883f-0016d3cca427"

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.Header.Set(RequestIDHeader, id)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, id, rec.Header().Get(RequestIDHeader))
}

func TestInjectThenExtract(t *testing.T) {
	router := newTestRouter(t)
	carrier := testPNG(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, multipartRequest(t, "/api/v1/stego/inject",
		map[string]string{"key": "pass", "payload": "hello", "offset": "auto"},
		upload{field: "carrier_file", name: "cat.png", data: carrier},
	))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, "png", rec.Header().Get("X-Stego-Format"))
	assert.Equal(t, "5", rec.Header().Get("X-Stego-Payload-Length"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "cat_stego.png")

	stegoImage := rec.Body.Bytes()
	assert.Len(t, stegoImage, len(carrier)+pngparser.ChunkOverhead+5)
	offset := rec.Header().Get("X-Stego-Offset")
	_, err := strconv.ParseUint(offset, 10, 64)
	require.NoError(t, err)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, multipartRequest(t, "/api/v1/stego/extract",
		map[string]string{"key": "pass", "offset": offset},
		upload{field: "stego_file", name: "cat_stego.png", data: stegoImage},
	))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hello", rec.Body.String())
	assert.Equal(t, "5", rec.Header().Get("X-Stego-Length"))
	assert.Equal(t, offset, rec.Header().Get("X-Stego-Offset"))
}

func TestExtractJSON(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, multipartRequest(t, "/api/v1/stego/inject",
		map[string]string{"key": "pass"},
		upload{field: "carrier_file", name: "a.png", data: testPNG(t)},
		upload{field: "secret_file", name: "secret.txt", data: []byte("from a file")},
	))
	require.Equal(t, http.StatusOK, rec.Code)

	req := multipartRequest(t, "/api/v1/stego/extract",
		map[string]string{"key": "invalid"},
		upload{field: "stego_file", name: "a.png", data: rec.Body.Bytes()},
	)
	req.Header.Set("Accept", "application/json")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.ExtractResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, len("from a file"), resp.Length)
	assert.NotEqual(t, "from a file", resp.Text)
}

func TestInjectValidation(t *testing.T) {
	router := newTestRouter(t)
	carrier := upload{field: "carrier_file", name: "a.png", data: testPNG(t)}

	tests := []struct {
		name   string
		fields map[string]string
		files  []upload
		status int
	}{
		{"missing key", map[string]string{"payload": "x"}, []upload{carrier}, http.StatusBadRequest},
		{"missing carrier", map[string]string{"key": "k", "payload": "x"}, nil, http.StatusBadRequest},
		{"missing payload", map[string]string{"key": "k"}, []upload{carrier}, http.StatusBadRequest},
		{"bad offset", map[string]string{"key": "k", "payload": "x", "offset": "-5"}, []upload{carrier}, http.StatusBadRequest},
		{"bad chunk type", map[string]string{"key": "k", "payload": "x", "chunk_type": "12ab"}, []upload{carrier}, http.StatusBadRequest},
		{
			"unknown format", map[string]string{"key": "k", "payload": "x"},
			[]upload{{field: "carrier_file", name: "a.gif", data: []byte("GIF89a")}}, http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, multipartRequest(t, "/api/v1/stego/inject", tt.fields, tt.files...))
			assert.Equal(t, tt.status, rec.Code)

			var resp models.StegoResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			assert.NotEmpty(t, resp.RequestID)
		})
	}
}

func TestDescribeImage(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, multipartRequest(t, "/api/v1/meta",
		map[string]string{"start": "2", "count": "1"},
		upload{field: "image_file", name: "a.png", data: testPNG(t)},
	))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var meta models.ImageMetadata
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &meta))
	assert.Equal(t, "png", meta.Format)
	assert.Equal(t, uint32(8), meta.Width)
	assert.Equal(t, 3, meta.EntryCount)
	require.Len(t, meta.Chunks, 1)
	assert.Equal(t, "IDAT", meta.Chunks[0].Type)
	require.NotNil(t, meta.AutoOffset)
}

func TestInjectExtractCompressed(t *testing.T) {
	router := newTestRouter(t)
	secret := bytes.Repeat([]byte("squeeze "), 100)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, multipartRequest(t, "/api/v1/stego/inject",
		map[string]string{"key": "pass", "payload": string(secret), "compress": "true"},
		upload{field: "carrier_file", name: "a.png", data: testPNG(t)},
	))
	require.Equal(t, http.StatusOK, rec.Code)
	stored, err := strconv.Atoi(rec.Header().Get("X-Stego-Payload-Length"))
	require.NoError(t, err)
	assert.Less(t, stored, len(secret))

	req := multipartRequest(t, "/api/v1/stego/extract",
		map[string]string{"key": "pass", "compress": "true"},
		upload{field: "stego_file", name: "a.png", data: rec.Body.Bytes()},
	)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, secret, rec.Body.Bytes())
}
