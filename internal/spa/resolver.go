package spa

import (
	"encoding/base64"
	"mime"
	"net/http"
	"path"
	"strings"
)

// IndexPath is the document that renders the application shell.
const IndexPath = "index.html"

// Policy controls what Resolve does when the requested path is not in the
// asset set. The two policies are mutually exclusive and chosen once at
// construction.
type Policy int

const (
	// PolicyStrict answers misses with 404.
	PolicyStrict Policy = iota
	// PolicyIndexFallback retries a miss against the index document and
	// only answers 404 when the index itself is absent.
	PolicyIndexFallback
)

// Outcome classifies how a lookup was answered.
type Outcome string

const (
	// OutcomeHit means the requested path was in the set.
	OutcomeHit Outcome = "hit"
	// OutcomeFallback means the miss was answered with the index document.
	OutcomeFallback Outcome = "index_fallback"
	// OutcomeMiss means the lookup produced a 404.
	OutcomeMiss Outcome = "miss"
)

// Response is a fully resolved HTTP response for one lookup. It is created
// per request and carries no reference back into the resolver.
type Response struct {
	Status      int
	ContentType string
	ETag        string
	Body        []byte
	// Outcome records how the lookup resolved; it is never written to the
	// wire.
	Outcome Outcome
}

// Write sends the response.
func (resp Response) Write(w http.ResponseWriter) {
	w.Header().Set("Content-Type", resp.ContentType)
	if resp.ETag != "" {
		w.Header().Set("ETag", resp.ETag)
	}
	w.WriteHeader(resp.Status)
	_, _ = w.Write(resp.Body)
}

// Resolver turns request paths into responses against a fixed asset set.
// Resolution is a pure function of the set and the path: no blocking I/O, no
// state mutation, safe for any number of concurrent requests.
type Resolver struct {
	assets Provider
	policy Policy
}

// NewResolver returns a resolver over assets with the given miss policy.
func NewResolver(assets Provider, policy Policy) *Resolver {
	return &Resolver{assets: assets, policy: policy}
}

// Resolve looks up the asset at the requested path. A leading slash is
// stripped before lookup. Hits return 200 with a content type guessed from
// the extension and an ETag derived from the content hash.
func (r *Resolver) Resolve(requested string) Response {
	p := strings.TrimPrefix(requested, "/")
	if a, ok := r.assets.Get(p); ok {
		return assetResponse(p, a, OutcomeHit)
	}
	if r.policy == PolicyIndexFallback {
		if a, ok := r.assets.Get(IndexPath); ok {
			return assetResponse(IndexPath, a, OutcomeFallback)
		}
	}
	return notFound()
}

func assetResponse(p string, a Asset, outcome Outcome) Response {
	return Response{
		Status:      http.StatusOK,
		ContentType: contentTypeFor(p),
		ETag:        base64.StdEncoding.EncodeToString(a.Hash),
		Body:        a.Data,
		Outcome:     outcome,
	}
}

func notFound() Response {
	return Response{
		Status:      http.StatusNotFound,
		ContentType: "text/plain",
		Body:        []byte("Not found"),
		Outcome:     OutcomeMiss,
	}
}

// webTypes pins content types for common web assets. Go's mime package maps
// .js to text/javascript while SPA toolchains expect application/javascript,
// and platform mime databases vary; the table keeps responses stable.
var webTypes = map[string]string{
	".html":  "text/html",
	".htm":   "text/html",
	".js":    "application/javascript",
	".mjs":   "application/javascript",
	".css":   "text/css",
	".json":  "application/json",
	".map":   "application/json",
	".svg":   "image/svg+xml",
	".png":   "image/png",
	".jpg":   "image/jpeg",
	".jpeg":  "image/jpeg",
	".gif":   "image/gif",
	".webp":  "image/webp",
	".ico":   "image/x-icon",
	".txt":   "text/plain",
	".wasm":  "application/wasm",
	".woff":  "font/woff",
	".woff2": "font/woff2",
}

func contentTypeFor(p string) string {
	ext := strings.ToLower(path.Ext(p))
	if ct, ok := webTypes[ext]; ok {
		return ct
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
