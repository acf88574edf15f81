package robotconfig

import (
	"errors"
	"fmt"
)

// Mode is the transport role a robot takes in the overlay.
type Mode string

// ModeClient makes the robot dial routers rather than accept peers.
const ModeClient Mode = "client"

// ErrNoEndpoints is returned when the resolver yields an empty endpoint list.
var ErrNoEndpoints = errors.New("endpoint resolver returned no endpoints")

// SafetyParameters configure the on-robot watchdog.
type SafetyParameters struct {
	WatchdogTimeoutMS int64  `json:"watchdog_timeout_ms" yaml:"watchdog_timeout_ms"`
	WatchdogTopic     string `json:"watchdog_topic" yaml:"watchdog_topic"`
	SafeStopBehavior  string `json:"safe_stop_behavior" yaml:"safe_stop_behavior"`
}

// Document is the configuration returned to a robot.
type Document struct {
	Mode       Mode             `json:"mode" yaml:"mode"`
	Connect    []string         `json:"connect" yaml:"connect"`
	Namespaces NamespaceSet     `json:"namespaces" yaml:"namespaces"`
	Safety     SafetyParameters `json:"safety" yaml:"safety"`
}

// Generator builds Documents. It holds no mutable state and is safe for
// concurrent use.
type Generator struct {
	policy   Policy
	resolver EndpointResolver
}

// NewGenerator validates policy and returns a Generator. A nil resolver falls
// back to a StaticResolver over policy.RouterEndpoints.
func NewGenerator(policy Policy, resolver EndpointResolver) (*Generator, error) {
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("invalid generator policy: %w", err)
	}
	if resolver == nil {
		resolver = NewStaticResolver(policy.RouterEndpoints)
	}

	return &Generator{
		policy:   policy,
		resolver: resolver,
	}, nil
}

// Policy returns the policy the generator was built with.
func (g *Generator) Policy() Policy {
	return g.policy
}

// Generate returns the configuration document for robotID owned by tenantID.
func (g *Generator) Generate(tenantID, robotID string) (*Document, error) {
	tenant, err := ParseTenantID(tenantID)
	if err != nil {
		return nil, err
	}
	robot, err := ParseRobotID(robotID)
	if err != nil {
		return nil, err
	}

	return g.GenerateFor(tenant, robot)
}

// GenerateFor is Generate over identifiers that were already parsed.
func (g *Generator) GenerateFor(tenant TenantID, robot RobotID) (*Document, error) {
	connect := g.resolver.ResolveEndpoints(tenant, robot)
	if len(connect) == 0 {
		return nil, ErrNoEndpoints
	}

	ns := Namespaces(tenant, robot)

	return &Document{
		Mode:       ModeClient,
		Connect:    connect,
		Namespaces: ns,
		Safety: SafetyParameters{
			WatchdogTimeoutMS: g.policy.WatchdogTimeout.Milliseconds(),
			WatchdogTopic:     ns.Heartbeat,
			SafeStopBehavior:  g.policy.SafeStopBehavior,
		},
	}, nil
}
