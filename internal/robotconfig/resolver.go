package robotconfig

// EndpointResolver chooses the ordered router endpoints a robot should dial.
// Implementations must return at least one endpoint.
type EndpointResolver interface {
	ResolveEndpoints(tenant TenantID, robot RobotID) []string
}

// ResolverFunc adapts an ordinary function to EndpointResolver.
type ResolverFunc func(tenant TenantID, robot RobotID) []string

// ResolveEndpoints calls f(tenant, robot).
func (f ResolverFunc) ResolveEndpoints(tenant TenantID, robot RobotID) []string {
	return f(tenant, robot)
}

// StaticResolver hands every robot the same endpoint list.
type StaticResolver struct {
	endpoints []string
}

// NewStaticResolver creates a resolver over a copy of endpoints.
func NewStaticResolver(endpoints []string) *StaticResolver {
	return &StaticResolver{endpoints: append([]string(nil), endpoints...)}
}

// ResolveEndpoints returns a fresh copy so callers cannot mutate the policy.
func (r *StaticResolver) ResolveEndpoints(TenantID, RobotID) []string {
	return append([]string(nil), r.endpoints...)
}
