package remote

import (
	"fmt"
	"strconv"
	"strings"

	internalstrings "github.com/ihower/todoapp/internal/strings"
)

// DefaultPort is used when no port is configured.
const DefaultPort = 8089

// ResolveAddr returns the listen address for a server. An explicit addr
// wins; a bare port number listens on loopback. Otherwise the configured
// port, or DefaultPort, is used.
func ResolveAddr(addr string, configuredPort int) (string, error) {
	if !internalstrings.IsBlank(addr) {
		return normalizeAddr(addr)
	}
	port := configuredPort
	if port == 0 {
		port = DefaultPort
	}
	if port < 0 || port > 65535 {
		return "", fmt.Errorf("port out of range: %d", port)
	}
	return fmt.Sprintf("127.0.0.1:%d", port), nil
}

func normalizeAddr(addr string) (string, error) {
	trimmed := strings.TrimSpace(addr)
	if trimmed == "" {
		return "", fmt.Errorf("address is required")
	}
	if strings.Contains(trimmed, ":") {
		return trimmed, nil
	}
	port, err := strconv.Atoi(trimmed)
	if err != nil {
		return "", fmt.Errorf("invalid port %q", trimmed)
	}
	if port <= 0 || port > 65535 {
		return "", fmt.Errorf("port out of range: %d", port)
	}
	return fmt.Sprintf("127.0.0.1:%d", port), nil
}
