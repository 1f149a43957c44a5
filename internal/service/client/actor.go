package client

import (
	"fmt"
	"os"
	"os/user"
)

// unknownActor is reported when the local user or host cannot be detected.
const unknownActor = "unknown"

// DetectActor returns "username@hostname" of the calling process for the
// daemon's audit log.
func DetectActor() (string, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return "", fmt.Errorf("hostname: %w", err)
	}

	currentUser, err := user.Current()
	if err != nil {
		return "", fmt.Errorf("current user: %w", err)
	}

	return currentUser.Username + "@" + hostname, nil
}
