package robotconfig

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPolicy_Validate(t *testing.T) {
	valid := DefaultPolicy()
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(p *Policy)
		errMsg string
	}{
		{
			name:   "no endpoints",
			mutate: func(p *Policy) { p.RouterEndpoints = nil },
			errMsg: "at least one router endpoint",
		},
		{
			name:   "endpoint without protocol",
			mutate: func(p *Policy) { p.RouterEndpoints = []string{"10.8.0.1:7447"} },
			errMsg: "invalid router endpoint",
		},
		{
			name:   "endpoint without port",
			mutate: func(p *Policy) { p.RouterEndpoints = []string{"tcp/10.8.0.1"} },
			errMsg: "invalid router endpoint",
		},
		{
			name:   "endpoint port out of range",
			mutate: func(p *Policy) { p.RouterEndpoints = []string{"tcp/10.8.0.1:70000"} },
			errMsg: "bad port",
		},
		{
			name:   "zero watchdog timeout",
			mutate: func(p *Policy) { p.WatchdogTimeout = 0 },
			errMsg: "watchdog timeout",
		},
		{
			name:   "watchdog timeout too long",
			mutate: func(p *Policy) { p.WatchdogTimeout = 2 * time.Minute },
			errMsg: "watchdog timeout",
		},
		{
			name:   "sub-millisecond watchdog timeout",
			mutate: func(p *Policy) { p.WatchdogTimeout = 100*time.Millisecond + 500*time.Microsecond },
			errMsg: "whole number of milliseconds",
		},
		{
			name:   "blank stop behavior",
			mutate: func(p *Policy) { p.SafeStopBehavior = "  " },
			errMsg: "safe stop behavior",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultPolicy()
			tt.mutate(&p)

			err := p.Validate()
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestValidateEndpoint(t *testing.T) {
	for _, ep := range []string{"tcp/10.8.0.1:7447", "udp/router.local:7447", "tls/[::1]:7447"} {
		assert.NoError(t, ValidateEndpoint(ep), ep)
	}
	for _, ep := range []string{"", "tcp", "/10.8.0.1:7447", "tcp/:7447", "tcp/host:port"} {
		assert.Error(t, ValidateEndpoint(ep), ep)
	}
}

func TestStaticResolver_Copies(t *testing.T) {
	src := []string{"tcp/a:1"}
	r := NewStaticResolver(src)
	src[0] = "tcp/b:2"

	got := r.ResolveEndpoints("t", "r")
	assert.Equal(t, []string{"tcp/a:1"}, got)

	got[0] = "tcp/c:3"
	assert.Equal(t, []string{"tcp/a:1"}, r.ResolveEndpoints("t", "r"))
}

func TestParseIdentifiers(t *testing.T) {
	tenant, err := ParseTenantID("acme")
	assert.NoError(t, err)
	assert.Equal(t, TenantID("acme"), tenant)

	robot, err := ParseRobotID("r2d2")
	assert.NoError(t, err)
	assert.Equal(t, RobotID("r2d2"), robot)

	_, err = ParseTenantID("")
	assert.EqualError(t, err, "invalid tenant_id: must not be empty")

	_, err = ParseRobotID("r2/d2")
	assert.EqualError(t, err, "invalid robot_id 'r2/d2': must not contain '/'")
}

func TestNamespaceSet_UnknownChannel(t *testing.T) {
	ns := Namespaces("acme", "r2d2")
	_, ok := ns.Channel("lidar")
	assert.False(t, ok)
}
