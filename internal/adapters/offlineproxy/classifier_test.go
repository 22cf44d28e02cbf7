package offlineproxy

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyRequest(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		headers map[string]string
		want    requestClass
	}{
		{
			name:    "explicit navigation",
			path:    "/properties",
			headers: map[string]string{"Sec-Fetch-Mode": "navigate"},
			want:    classNavigation,
		},
		{
			name: "api path wins over accept header",
			path: "/api/v1/properties",
			headers: map[string]string{
				"Accept": "text/html",
			},
			want: classAPI,
		},
		{
			name: "image by extension",
			path: "/uploads/house.webp",
			want: classImage,
		},
		{
			name:    "image by accept header",
			path:    "/dynamic-image",
			headers: map[string]string{"Accept": "image/avif"},
			want:    classImage,
		},
		{
			name: "root path is navigation",
			path: "/",
			want: classNavigation,
		},
		{
			name: "stylesheet is static",
			path: "/styles/app.css",
			want: classStatic,
		},
		{
			name:    "html accept without fetch metadata",
			path:    "/some/page",
			headers: map[string]string{"Accept": "text/html,application/xhtml+xml"},
			want:    classNavigation,
		},
		{
			name: "everything else",
			path: "/metrics-feed",
			want: classOther,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, classifyRequest(req))
		})
	}
}
