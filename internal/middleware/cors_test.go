package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCors_AllowedOrigin(t *testing.T) {
	mw := Cors([]string{"https://club.example.org"})
	handler := mw(okHandler())

	req := httptest.NewRequest("GET", "/api/blog", nil)
	req.Header.Set("Origin", "https://club.example.org")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "https://club.example.org", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rr.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCors_UnknownOrigin(t *testing.T) {
	mw := Cors([]string{"https://club.example.org"})
	handler := mw(okHandler())

	req := httptest.NewRequest("GET", "/api/blog", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestCors_NoOrigin(t *testing.T) {
	mw := Cors([]string{"https://club.example.org"})
	handler := mw(okHandler())

	req := httptest.NewRequest("GET", "/api/blog", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestCors_UploadsFromAnywhere(t *testing.T) {
	mw := Cors([]string{"https://club.example.org"})
	handler := mw(okHandler())

	req := httptest.NewRequest("GET", "/api/uploads/abc.png", nil)
	req.Header.Set("Origin", "https://somewhere.example.net")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "https://somewhere.example.net", rr.Header().Get("Access-Control-Allow-Origin"))
}
