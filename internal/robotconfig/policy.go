package robotconfig

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// Policy defaults.
const (
	DefaultRouterEndpoint   = "tcp/10.8.0.1:7447"
	DefaultWatchdogTimeout  = time.Second
	DefaultSafeStopBehavior = "ramp_down_0.5s"

	MinWatchdogTimeout = 10 * time.Millisecond
	MaxWatchdogTimeout = 60 * time.Second
)

// Policy holds the deployment-level constants that shape every document.
type Policy struct {
	RouterEndpoints  []string
	WatchdogTimeout  time.Duration
	SafeStopBehavior string
}

// DefaultPolicy returns the policy used when nothing is overridden.
func DefaultPolicy() Policy {
	return Policy{
		RouterEndpoints:  []string{DefaultRouterEndpoint},
		WatchdogTimeout:  DefaultWatchdogTimeout,
		SafeStopBehavior: DefaultSafeStopBehavior,
	}
}

// Validate checks if the policy can produce well-formed documents.
func (p Policy) Validate() error {
	if len(p.RouterEndpoints) == 0 {
		return fmt.Errorf("at least one router endpoint is required")
	}
	for _, ep := range p.RouterEndpoints {
		if err := ValidateEndpoint(ep); err != nil {
			return err
		}
	}

	if p.WatchdogTimeout < MinWatchdogTimeout || p.WatchdogTimeout > MaxWatchdogTimeout {
		return fmt.Errorf("watchdog timeout %s outside [%s, %s]", p.WatchdogTimeout, MinWatchdogTimeout, MaxWatchdogTimeout)
	}
	if p.WatchdogTimeout%time.Millisecond != 0 {
		return fmt.Errorf("watchdog timeout %s is not a whole number of milliseconds", p.WatchdogTimeout)
	}

	if strings.TrimSpace(p.SafeStopBehavior) == "" {
		return fmt.Errorf("safe stop behavior is required")
	}

	return nil
}

// ValidateEndpoint checks an endpoint of the form "<proto>/<host>:<port>".
func ValidateEndpoint(endpoint string) error {
	proto, addr, ok := strings.Cut(endpoint, "/")
	if !ok || proto == "" {
		return fmt.Errorf("invalid router endpoint %q: expected <proto>/<host>:<port>", endpoint)
	}

	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("invalid router endpoint %q: %w", endpoint, err)
	}
	if host == "" {
		return fmt.Errorf("invalid router endpoint %q: empty host", endpoint)
	}

	n, err := strconv.Atoi(port)
	if err != nil || n <= 0 || n > 65535 {
		return fmt.Errorf("invalid router endpoint %q: bad port %q", endpoint, port)
	}

	return nil
}
