package robotconfig

// Root is the first segment of every robot topic namespace.
const Root = "nkz"

// Logical channels published or subscribed by a robot.
const (
	ChannelCmdVel    = "cmd_vel"
	ChannelVideo     = "video"
	ChannelTelemetry = "telemetry"
	ChannelHeartbeat = "heartbeat"
)

// Channels lists the fixed channel set in document order.
var Channels = []string{ChannelCmdVel, ChannelVideo, ChannelTelemetry, ChannelHeartbeat}

// NamespaceSet holds the bare prefix and the fully-qualified topic of each channel.
type NamespaceSet struct {
	Prefix    string `json:"prefix" yaml:"prefix"`
	CmdVel    string `json:"cmd_vel" yaml:"cmd_vel"`
	Video     string `json:"video" yaml:"video"`
	Telemetry string `json:"telemetry" yaml:"telemetry"`
	Heartbeat string `json:"heartbeat" yaml:"heartbeat"`
}

// Prefix returns "nkz/<tenant>/<robot>".
func Prefix(tenant TenantID, robot RobotID) string {
	return Root + Separator + string(tenant) + Separator + string(robot)
}

// Topic returns the topic of channel under prefix.
func Topic(prefix, channel string) string {
	return prefix + Separator + channel
}

// Namespaces expands the topic namespace for a robot. Both identifiers are
// expected to have passed ParseTenantID / ParseRobotID.
func Namespaces(tenant TenantID, robot RobotID) NamespaceSet {
	prefix := Prefix(tenant, robot)
	return NamespaceSet{
		Prefix:    prefix,
		CmdVel:    Topic(prefix, ChannelCmdVel),
		Video:     Topic(prefix, ChannelVideo),
		Telemetry: Topic(prefix, ChannelTelemetry),
		Heartbeat: Topic(prefix, ChannelHeartbeat),
	}
}

// Channel returns the topic for a named channel, or false if the name is unknown.
func (n NamespaceSet) Channel(name string) (string, bool) {
	switch name {
	case ChannelCmdVel:
		return n.CmdVel, true
	case ChannelVideo:
		return n.Video, true
	case ChannelTelemetry:
		return n.Telemetry, true
	case ChannelHeartbeat:
		return n.Heartbeat, true
	default:
		return "", false
	}
}
