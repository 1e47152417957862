package routes_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/cropwise/pkg/routes"
)

func echoPath(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(r.PathValue("id")))
}

func TestRegister(t *testing.T) {
	mux := http.NewServeMux()

	routes.Register(mux,
		routes.Group{
			Prefix: "/crops",
			Routes: []routes.Route{
				{Method: "GET", Pattern: "", Handler: echoPath},
				{Method: "GET", Pattern: "/{id}", Handler: echoPath},
			},
		},
		routes.Group{
			Prefix: "/plantings",
			Children: []routes.Group{
				{
					Prefix: "/{id}",
					Routes: []routes.Route{
						{Method: "POST", Pattern: "/harvest", Handler: echoPath},
					},
				},
			},
		},
	)

	tests := []struct {
		name     string
		method   string
		path     string
		wantCode int
		wantBody string
	}{
		{"list", "GET", "/crops", http.StatusOK, ""},
		{"find", "GET", "/crops/rice", http.StatusOK, "rice"},
		{"nested child", "POST", "/plantings/42/harvest", http.StatusOK, "42"},
		{"wrong method", "DELETE", "/crops/rice", http.StatusMethodNotAllowed, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if tt.wantCode == http.StatusOK && rec.Body.String() != tt.wantBody {
				t.Errorf("body = %q, want %q", rec.Body.String(), tt.wantBody)
			}
		})
	}
}
