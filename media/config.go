// Package media publishes audio and video files into game video rooms.
package media

import (
	"fmt"
	"strconv"

	"github.com/pion/webrtc/v4"
)

// DefaultBitrate is the bitrate announced to the video room when publishing.
const DefaultBitrate = 2000000

// Config defines the configuration for publishing media.
type Config struct {
	JanusURL       string
	TURNServers    []string
	TURNUsername   string
	TURNCredential string
	STUNServer     string
	MinUdpPort     string // Minimum UDP port for WebRTC
	MaxUdpPort     string // Maximum UDP port for WebRTC
	FFmpegPath     string
	Bitrate        int
}

// ICEServers returns every TURN server with the shared credentials, then the STUN server.
func (c Config) ICEServers() []webrtc.ICEServer {
	servers := make([]webrtc.ICEServer, 0, len(c.TURNServers)+1)
	for _, turn := range c.TURNServers {
		servers = append(servers, webrtc.ICEServer{
			URLs:       []string{turn},
			Username:   c.TURNUsername,
			Credential: c.TURNCredential,
		})
	}
	if c.STUNServer != "" {
		servers = append(servers, webrtc.ICEServer{URLs: []string{c.STUNServer}})
	}
	return servers
}

// SetPortRange sets the ephemeral UDP port range for WebRTC. Empty bounds keep pion's defaults.
func (c Config) SetPortRange(s *webrtc.SettingEngine) error {
	if c.MinUdpPort == "" && c.MaxUdpPort == "" {
		return nil
	}

	minPort, err := strconv.Atoi(c.MinUdpPort)
	if err != nil || minPort < 0 || minPort > 65535 {
		return fmt.Errorf("invalid MinUdpPort: %s, error: %v", c.MinUdpPort, err)
	}

	maxPort, err := strconv.Atoi(c.MaxUdpPort)
	if err != nil || maxPort < 0 || maxPort > 65535 {
		return fmt.Errorf("invalid MaxUdpPort: %s, error: %v", c.MaxUdpPort, err)
	}

	if minPort > maxPort {
		return fmt.Errorf("invalid port range: MinUdpPort (%d) > MaxUdpPort (%d)", minPort, maxPort)
	}

	if err := s.SetEphemeralUDPPortRange(uint16(minPort), uint16(maxPort)); err != nil {
		return fmt.Errorf("failed to set ephemeral UDP port range: %w", err)
	}
	return nil
}
