// Package sites holds the configured site registry. A "site" is a physical
// location carrying its own QR code; unknown codes fall back to the default
// so a stale QR poster still produces a usable record.
package sites

import (
	"sort"
	"sync"
)

type Site struct {
	Code  string
	Label string
}

type Registry struct {
	mu          sync.RWMutex
	sites       map[string]string
	defaultSite string
}

func NewRegistry(sites map[string]string, defaultSite string) *Registry {
	copied := make(map[string]string, len(sites))
	for code, label := range sites {
		copied[code] = label
	}
	if _, ok := copied[defaultSite]; !ok && len(copied) > 0 {
		// Pick a stable default when the configured one is absent.
		codes := make([]string, 0, len(copied))
		for code := range copied {
			codes = append(codes, code)
		}
		sort.Strings(codes)
		defaultSite = codes[0]
	}
	return &Registry{sites: copied, defaultSite: defaultSite}
}

func (r *Registry) Exists(code string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.sites[code]
	return ok
}

// Resolve maps a requested site code onto a configured one, falling back to
// the default for empty or unknown codes.
func (r *Registry) Resolve(code string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if _, ok := r.sites[code]; ok {
		return code
	}
	return r.defaultSite
}

func (r *Registry) Label(code string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if label, ok := r.sites[code]; ok {
		return label
	}
	return code
}

func (r *Registry) Default() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.defaultSite
}

// All returns the configured sites sorted by code for stable rendering.
func (r *Registry) All() []Site {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]Site, 0, len(r.sites))
	for code, label := range r.sites {
		result = append(result, Site{Code: code, Label: label})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Code < result[j].Code })
	return result
}
