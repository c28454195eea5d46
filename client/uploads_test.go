package client

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_UploadImage(t *testing.T) {
	imageBytes := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/admin/uploads/image", r.URL.Path)
		require.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data"))

		file, header, err := r.FormFile("image")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "cover.png", header.Filename)

		received, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, imageBytes, received)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"url":"/api/uploads/abc123.png"}`))
	}))
	defer server.Close()

	c := New(server.URL, nil)
	url, err := c.UploadImage(context.Background(), "cover.png", bytes.NewReader(imageBytes))
	require.NoError(t, err)
	assert.Equal(t, "/api/uploads/abc123.png", url)
}

func TestClient_UploadImage_Rejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("unsupported image type"))
	}))
	defer server.Close()

	c := New(server.URL, nil)
	_, err := c.UploadImage(context.Background(), "notes.txt", strings.NewReader("plain text"))
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "unsupported image type", apiErr.Error())
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
}
