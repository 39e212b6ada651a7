// Package swaggerkit mounts Swagger UI over the embedded OpenAPI doc
package swaggerkit

import (
	"net/http"

	phttp "trendscope/internal/platform/net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

// Options controls the docs mount
type Options struct {
	Enabled     bool
	TitleSuffix string
}

// Mount the Swagger UI and JSON doc under /api/docs if enabled
func Mount(r phttp.Router, o Options) {
	if !o.Enabled {
		return
	}
	r.Get("/api/docs", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/api/docs/", http.StatusPermanentRedirect)
	})
	r.Get("/api/docs/doc.json", serveDocJSON(o.TitleSuffix))
	r.Handle("/api/docs/*", httpSwagger.Handler(
		httpSwagger.InstanceName("trendscope"),
		httpSwagger.URL("/api/docs/doc.json"),
	))
}
