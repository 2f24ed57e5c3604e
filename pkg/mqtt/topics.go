package mqtt

// Topic layout for the aquarium light bridge. A separate bridge process
// translates these into the vendor wireless protocol.
const (
	// Device command topics (output)
	TopicCommandBrightness = "aquarium/command/light/brightness"
	TopicCommandColorTemp  = "aquarium/command/light/cct"
	TopicCommandRGBW       = "aquarium/command/light/rgbw"

	// Retained state topic for dashboards and other agents
	TopicStateLight = "aquarium/state/light"
)
