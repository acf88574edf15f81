package robotconfig

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func newTestGenerator(t *testing.T) *Generator {
	g, err := NewGenerator(DefaultPolicy(), nil)
	require.NoError(t, err)
	return g
}

func TestGenerator_Generate_Example(t *testing.T) {
	g := newTestGenerator(t)

	doc, err := g.Generate("acme", "r2d2")
	require.NoError(t, err)

	assert.Equal(t, ModeClient, doc.Mode)
	assert.Equal(t, []string{"tcp/10.8.0.1:7447"}, doc.Connect)
	assert.Equal(t, "nkz/acme/r2d2", doc.Namespaces.Prefix)
	assert.Equal(t, "nkz/acme/r2d2/cmd_vel", doc.Namespaces.CmdVel)
	assert.Equal(t, "nkz/acme/r2d2/video", doc.Namespaces.Video)
	assert.Equal(t, "nkz/acme/r2d2/telemetry", doc.Namespaces.Telemetry)
	assert.Equal(t, "nkz/acme/r2d2/heartbeat", doc.Namespaces.Heartbeat)
	assert.Equal(t, int64(1000), doc.Safety.WatchdogTimeoutMS)
	assert.Equal(t, "nkz/acme/r2d2/heartbeat", doc.Safety.WatchdogTopic)
	assert.Equal(t, "ramp_down_0.5s", doc.Safety.SafeStopBehavior)
}

func TestGenerator_Generate_WireShape(t *testing.T) {
	g := newTestGenerator(t)

	doc, err := g.Generate("acme", "r2d2")
	require.NoError(t, err)

	data, err := json.Marshal(doc)
	require.NoError(t, err)

	expected := `{"mode":"client","connect":["tcp/10.8.0.1:7447"],` +
		`"namespaces":{"prefix":"nkz/acme/r2d2","cmd_vel":"nkz/acme/r2d2/cmd_vel","video":"nkz/acme/r2d2/video",` +
		`"telemetry":"nkz/acme/r2d2/telemetry","heartbeat":"nkz/acme/r2d2/heartbeat"},` +
		`"safety":{"watchdog_timeout_ms":1000,"watchdog_topic":"nkz/acme/r2d2/heartbeat","safe_stop_behavior":"ramp_down_0.5s"}}`
	assert.Equal(t, expected, string(data))
}

func TestGenerator_Generate_YAML(t *testing.T) {
	g := newTestGenerator(t)

	doc, err := g.Generate("acme", "r2d2")
	require.NoError(t, err)

	data, err := yaml.Marshal(doc)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, "client", decoded["mode"])

	safety, ok := decoded["safety"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, 1000, safety["watchdog_timeout_ms"])
}

func TestGenerator_Generate_ChannelInvariant(t *testing.T) {
	g := newTestGenerator(t)

	pairs := [][2]string{
		{"acme", "r2d2"},
		{"t", "r"},
		{"tenant-with-dashes", "robot_with_underscores"},
		{"ñandú", "ロボット"},
		{"a b", "c.d"},
	}

	for _, p := range pairs {
		t.Run(p[0]+"|"+p[1], func(t *testing.T) {
			doc, err := g.Generate(p[0], p[1])
			require.NoError(t, err)

			assert.Equal(t, "nkz/"+p[0]+"/"+p[1], doc.Namespaces.Prefix)
			for _, ch := range Channels {
				topic, ok := doc.Namespaces.Channel(ch)
				require.True(t, ok)
				assert.Equal(t, doc.Namespaces.Prefix+"/"+ch, topic)
			}
			assert.Equal(t, doc.Namespaces.Heartbeat, doc.Safety.WatchdogTopic)
			assert.NotEmpty(t, doc.Connect)
		})
	}
}

func TestGenerator_Generate_Idempotent(t *testing.T) {
	g := newTestGenerator(t)

	first, err := g.Generate("acme", "r2d2")
	require.NoError(t, err)
	second, err := g.Generate("acme", "r2d2")
	require.NoError(t, err)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestGenerator_Generate_Injective(t *testing.T) {
	g := newTestGenerator(t)

	ids := []string{"a", "b", "ab", "a.b", "a-b", "nkz", "x"}
	seen := make(map[string][2]string)

	for _, tenant := range ids {
		for _, robot := range ids {
			doc, err := g.Generate(tenant, robot)
			require.NoError(t, err)

			prev, dup := seen[doc.Namespaces.Prefix]
			assert.False(t, dup, "prefix %q produced by %v and %v", doc.Namespaces.Prefix, prev, [2]string{tenant, robot})
			seen[doc.Namespaces.Prefix] = [2]string{tenant, robot}
		}
	}
	assert.Len(t, seen, len(ids)*len(ids))
}

func TestGenerator_Generate_ValidationErrors(t *testing.T) {
	g := newTestGenerator(t)

	tests := []struct {
		name   string
		tenant string
		robot  string
		field  string
	}{
		{"empty tenant", "", "r2d2", "tenant_id"},
		{"empty robot", "acme", "", "robot_id"},
		{"separator in tenant", "a/b", "r2d2", "tenant_id"},
		{"separator in robot", "acme", "r2/d2", "robot_id"},
		{"both empty reports tenant first", "", "", "tenant_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := g.Generate(tt.tenant, tt.robot)
			assert.Nil(t, doc)
			require.Error(t, err)
			assert.True(t, IsValidationError(err))

			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestGenerator_Generate_CollidingPairsRejected(t *testing.T) {
	g := newTestGenerator(t)

	_, err := g.Generate("a/b", "c")
	assert.True(t, IsValidationError(err))

	_, err = g.Generate("a", "b/c")
	assert.True(t, IsValidationError(err))
}

func TestGenerator_CustomPolicyAndResolver(t *testing.T) {
	policy := Policy{
		RouterEndpoints:  []string{"tcp/router-a:7447"},
		WatchdogTimeout:  250 * time.Millisecond,
		SafeStopBehavior: "brake_hard",
	}

	var calls []string
	resolver := ResolverFunc(func(tenant TenantID, robot RobotID) []string {
		calls = append(calls, string(tenant)+"/"+string(robot))
		return []string{"tcp/eu-1:7447", "tcp/eu-2:7447"}
	})

	g, err := NewGenerator(policy, resolver)
	require.NoError(t, err)

	doc, err := g.Generate("acme", "r2d2")
	require.NoError(t, err)

	assert.Equal(t, []string{"tcp/eu-1:7447", "tcp/eu-2:7447"}, doc.Connect)
	assert.Equal(t, int64(250), doc.Safety.WatchdogTimeoutMS)
	assert.Equal(t, "brake_hard", doc.Safety.SafeStopBehavior)
	assert.Equal(t, []string{"acme/r2d2"}, calls)
}

func TestGenerator_EmptyResolverResult(t *testing.T) {
	g, err := NewGenerator(DefaultPolicy(), ResolverFunc(func(TenantID, RobotID) []string {
		return nil
	}))
	require.NoError(t, err)

	doc, err := g.Generate("acme", "r2d2")
	assert.Nil(t, doc)
	assert.ErrorIs(t, err, ErrNoEndpoints)
	assert.False(t, IsValidationError(err))
}

func TestGenerator_ResultDoesNotAliasPolicy(t *testing.T) {
	g := newTestGenerator(t)

	doc, err := g.Generate("acme", "r2d2")
	require.NoError(t, err)
	doc.Connect[0] = "tcp/evil:1"

	again, err := g.Generate("acme", "r2d2")
	require.NoError(t, err)
	assert.Equal(t, DefaultRouterEndpoint, again.Connect[0])
}

func TestNewGenerator_InvalidPolicy(t *testing.T) {
	_, err := NewGenerator(Policy{}, nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid generator policy")
}

func TestGenerator_Concurrent(t *testing.T) {
	g := newTestGenerator(t)

	var wg sync.WaitGroup
	errs := make(chan error, 64)

	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tenant := fmt.Sprintf("tenant%d", i%4)
			robot := fmt.Sprintf("robot%d", i)

			doc, err := g.Generate(tenant, robot)
			if err != nil {
				errs <- err
				return
			}
			if doc.Namespaces.Prefix != "nkz/"+tenant+"/"+robot {
				errs <- fmt.Errorf("unexpected prefix %q", doc.Namespaces.Prefix)
			}
		}(i)
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}
