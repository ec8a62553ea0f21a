package validators

import (
	"context"
	"net"
	"strings"
	"time"
)

const DefaultLookupTimeout = 3 * time.Second

// Resolver is the part of *net.Resolver the domain check needs.
type Resolver interface {
	LookupMX(ctx context.Context, name string) ([]*net.MX, error)
	LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error)
}

// EmailDomainChecker accepts an email when its domain publishes an MX
// record or, failing that, resolves to an address.
type EmailDomainChecker struct {
	resolver Resolver
	timeout  time.Duration
}

func NewEmailDomainChecker(timeout time.Duration) *EmailDomainChecker {
	return NewEmailDomainCheckerWith(net.DefaultResolver, timeout)
}

func NewEmailDomainCheckerWith(r Resolver, timeout time.Duration) *EmailDomainChecker {
	if timeout <= 0 {
		timeout = DefaultLookupTimeout
	}
	return &EmailDomainChecker{resolver: r, timeout: timeout}
}

// Valid bounds both lookups by the checker's timeout and by ctx.
func (c *EmailDomainChecker) Valid(ctx context.Context, email string) bool {
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	domain := email[at+1:]

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if mx, err := c.resolver.LookupMX(ctx, domain); err == nil && len(mx) > 0 {
		return true
	}
	if ctx.Err() != nil {
		return false
	}

	ips, err := c.resolver.LookupIPAddr(ctx, domain)
	return err == nil && len(ips) > 0
}
