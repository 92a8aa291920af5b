package spa

import (
	"net/http"
	"strings"
)

// Variant selects how the router carves up the URL space. It is a build-time
// wiring decision made once at construction, not a runtime switch.
type Variant int

const (
	// VariantSeparated serves files under <mount>/ from the assets/
	// subtree of the set, answering 404 for unknown files, while every
	// path outside the mount renders the index document. Broken asset
	// references inside the mount stay observable as 404s.
	VariantSeparated Variant = iota
	// VariantUnified serves the whole set under <mount>/ and answers any
	// miss with the index document and status 200.
	VariantUnified
)

func (v Variant) String() string {
	switch v {
	case VariantUnified:
		return "unified"
	default:
		return "separated"
	}
}

// assetNamespace is the subtree the separated variant resolves against.
const assetNamespace = "assets"

// Router binds a Resolver to ServeMux route patterns.
type Router struct {
	mount    string
	variant  Variant
	strict   *Resolver
	fallback *Resolver
	observer func(Outcome)
}

// NewRouter returns a router serving assets under mount. The mount path must
// begin with "/"; a trailing slash is stripped.
func NewRouter(mount string, assets Provider, variant Variant) *Router {
	return &Router{
		mount:    strings.TrimSuffix(mount, "/"),
		variant:  variant,
		strict:   NewResolver(assets, PolicyStrict),
		fallback: NewResolver(assets, PolicyIndexFallback),
	}
}

// SetObserver installs a callback invoked with the outcome of every lookup
// the router serves. Must be called before Register; the callback must be
// safe for concurrent use.
func (rt *Router) SetObserver(fn func(Outcome)) {
	rt.observer = fn
}

func (rt *Router) serve(w http.ResponseWriter, resp Response) {
	if rt.observer != nil {
		rt.observer(resp.Outcome)
	}
	resp.Write(w)
}

// Register wires the router's patterns into mux. More specific patterns
// registered on the same mux (an /api prefix, /healthz, ...) keep precedence
// over the SPA routes.
func (rt *Router) Register(mux *http.ServeMux) {
	switch rt.variant {
	case VariantUnified:
		mux.HandleFunc(rt.mount+"/", rt.serveUnified)
	default:
		mux.HandleFunc(rt.mount+"/", rt.serveAssets)
		mux.HandleFunc("/", rt.serveIndex)
	}
}

// serveAssets resolves <mount>/<rel> against assets/<rel>, strictly.
func (rt *Router) serveAssets(w http.ResponseWriter, r *http.Request) {
	rel := strings.TrimPrefix(r.URL.Path, rt.mount+"/")
	rt.serve(w, rt.strict.Resolve(assetNamespace+"/"+rel))
}

// serveIndex renders the application shell regardless of the path typed, so
// unknown top-level routes still load the application and client-side
// routing takes over.
func (rt *Router) serveIndex(w http.ResponseWriter, r *http.Request) {
	rt.serve(w, rt.strict.Resolve(IndexPath))
}

// serveUnified resolves <mount>/<rel> directly, falling back to the shell.
func (rt *Router) serveUnified(w http.ResponseWriter, r *http.Request) {
	rel := strings.TrimPrefix(r.URL.Path, rt.mount+"/")
	rt.serve(w, rt.fallback.Resolve(rel))
}
