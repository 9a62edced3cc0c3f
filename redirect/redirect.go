// Package redirect decides whether a post-ceremony redirect target is
// allowed. The check is an allowlist: any URL not matching a rule is
// rejected. It is pure; configuration is explicit rather than read from
// ambient process state.
package redirect

import (
	"net/url"
	"strings"
)

// Fixed production allowlist. These are deliberately constants, not
// runtime-configurable values.
var (
	defaultParentDomains = []string{"ente.io", "ente.sh"}
	defaultAppSchemes    = []string{"ente", "enteauth"}
	defaultLoopbackHosts = []string{"localhost", "127.0.0.1"}
)

// Config describes the allowlist for a Validator.
type Config struct {
	// ParentDomains allow any host equal to, or a subdomain of, an entry.
	ParentDomains []string
	// AppSchemes allow custom application scheme URLs (e.g. "app://open").
	AppSchemes []string
	// LoopbackHosts are honored only when Development is set.
	LoopbackHosts []string
	// Development enables the loopback rule for local builds.
	Development bool
}

// Validator evaluates redirect targets against a fixed allowlist.
type Validator struct {
	parentDomains []string
	appSchemes    []string
	loopbackHosts []string
	development   bool
}

// New creates a Validator from cfg.
func New(cfg Config) *Validator {
	return &Validator{
		parentDomains: cfg.ParentDomains,
		appSchemes:    cfg.AppSchemes,
		loopbackHosts: cfg.LoopbackHosts,
		development:   cfg.Development,
	}
}

// Default returns a Validator with the production allowlist constants.
func Default(development bool) *Validator {
	return New(Config{
		ParentDomains: defaultParentDomains,
		AppSchemes:    defaultAppSchemes,
		LoopbackHosts: defaultLoopbackHosts,
		Development:   development,
	})
}

// IsAllowedRedirect reports whether raw is an acceptable redirect target.
// Allowed iff: the URL uses an allowlisted custom app scheme, or its host
// belongs to an allowlisted parent domain, or (development builds only) its
// host is a local loopback.
func (v *Validator) IsAllowedRedirect(raw string) bool {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}

	scheme := strings.ToLower(parsed.Scheme)
	for _, allowed := range v.appSchemes {
		if scheme == allowed {
			return true
		}
	}

	if scheme != "http" && scheme != "https" {
		return false
	}

	host := strings.ToLower(parsed.Hostname())
	if host == "" {
		return false
	}

	if v.development {
		for _, loopback := range v.loopbackHosts {
			if host == loopback || strings.HasSuffix(host, "."+loopback) {
				return true
			}
		}
	}

	for _, parent := range v.parentDomains {
		if host == parent || strings.HasSuffix(host, "."+parent) {
			return true
		}
	}
	return false
}
