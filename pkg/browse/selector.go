package browse

import (
	"fmt"
	"net/url"
	"strings"
)

// SelectorScheme is the URI scheme accepted by ParseSelector.
const SelectorScheme = "dnssd"

// Selector names the services a session browses for.
type Selector struct {
	// ServiceType is the DNS-SD service type, e.g. "_http._tcp".
	ServiceType string

	// Domain restricts browsing to one domain. Empty means all domains.
	Domain string
}

// NewSelector validates and returns a selector.
func NewSelector(serviceType, domain string) (Selector, error) {
	sel := Selector{ServiceType: serviceType, Domain: domain}
	if err := sel.Validate(); err != nil {
		return Selector{}, err
	}
	return sel, nil
}

// Validate checks that the selector can be handed to a transport.
func (s Selector) Validate() error {
	if strings.TrimSpace(s.ServiceType) == "" {
		return fmt.Errorf("%w: empty service type", ErrInvalidSelector)
	}
	if strings.IndexByte(s.ServiceType, 0) >= 0 {
		return fmt.Errorf("%w: service type contains NUL", ErrInvalidSelector)
	}
	if strings.IndexByte(s.Domain, 0) >= 0 {
		return fmt.Errorf("%w: domain contains NUL", ErrInvalidSelector)
	}
	return nil
}

// AllDomains reports whether the selector browses every domain.
func (s Selector) AllDomains() bool {
	return s.Domain == ""
}

// String returns the selector in URI form.
func (s Selector) String() string {
	return SelectorScheme + "://" + s.Domain + "/" + s.ServiceType
}

// ParseSelector parses a DNS-SD URI of the form dnssd://<domain>/<type>.
// The domain part may be empty ("dnssd:///_http._tcp") to browse all
// domains.
func ParseSelector(uri string) (Selector, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return Selector{}, fmt.Errorf("%w: %v", ErrInvalidSelector, err)
	}
	if u.Scheme != SelectorScheme {
		return Selector{}, fmt.Errorf("%w: scheme %q is not %q", ErrInvalidSelector, u.Scheme, SelectorScheme)
	}
	return NewSelector(strings.Trim(u.Path, "/"), u.Host)
}
