package providers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dummyHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
}

func TestRouterProvider_KeepsRegistrationOrder(t *testing.T) {
	rp := NewRouterProvider()
	rp.Get("/{$}", dummyHandler())
	rp.Post("/upload", dummyHandler())
	rp.Get("/download/{conversion}/{filename}", dummyHandler())

	routes := rp.GetRoutes()
	require.Len(t, routes, 3)
	assert.Equal(t, "/{$}", routes[0].Url)
	assert.Equal(t, "/upload", routes[1].Url)
	assert.Equal(t, "/download/{conversion}/{filename}", routes[2].Url)
}

func TestMethodHandler(t *testing.T) {
	tests := []struct {
		name      string
		route     string
		method    string
		wantCode  int
		wantAllow string
		wantBody  bool
	}{
		{"get on get route", http.MethodGet, http.MethodGet, http.StatusOK, "", true},
		{"head on get route", http.MethodGet, http.MethodHead, http.StatusOK, "", false},
		{"post on get route", http.MethodGet, http.MethodPost, http.StatusMethodNotAllowed, "GET", false},
		{"delete on get route", http.MethodGet, http.MethodDelete, http.StatusMethodNotAllowed, "GET", false},
		{"post on post route", http.MethodPost, http.MethodPost, http.StatusOK, "", true},
		{"get on post route", http.MethodPost, http.MethodGet, http.StatusMethodNotAllowed, "POST", false},
		{"head on post route", http.MethodPost, http.MethodHead, http.StatusMethodNotAllowed, "POST", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			methodHandler(tt.route, dummyHandler()).ServeHTTP(rr, httptest.NewRequest(tt.method, "/convert", nil))

			assert.Equal(t, tt.wantCode, rr.Code)
			assert.Equal(t, tt.wantAllow, rr.Header().Get("Allow"))
			if tt.wantBody {
				assert.Equal(t, "ok", rr.Body.String())
			}
		})
	}
}

func TestRouterProvider_RoutesServeThroughMux(t *testing.T) {
	rp := NewRouterProvider()
	rp.Get("/usage/{fingerprint}", dummyHandler())
	rp.Post("/convert", dummyHandler())

	mux := http.NewServeMux()
	for _, route := range rp.GetRoutes() {
		mux.Handle(route.Url, route.Handler)
	}

	serve := func(method, path string) *httptest.ResponseRecorder {
		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, httptest.NewRequest(method, path, nil))
		return rr
	}

	assert.Equal(t, http.StatusOK, serve(http.MethodHead, "/usage/abc").Code)
	assert.Equal(t, http.StatusOK, serve(http.MethodPost, "/convert").Code)

	rr := serve(http.MethodGet, "/convert")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Equal(t, "POST", rr.Header().Get("Allow"))
	assert.Equal(t, http.StatusNotFound, serve(http.MethodGet, "/missing").Code)
}
