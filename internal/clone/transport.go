package clone

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ghfolio/ghfolio/internal/identifier"
)

// TransportPolicy selects how clone URLs are constructed.
type TransportPolicy string

// Supported transport policies. TransportAuto probes for a usable SSH key and
// falls back to HTTPS; the probe is heuristic and intentionally replaceable.
const (
	TransportHTTPS TransportPolicy = "https"
	TransportSSH   TransportPolicy = "ssh"
	TransportAuto  TransportPolicy = "auto"
)

const (
	httpsCloneURLTemplateConstant    = "https://github.com/%s/%s.git"
	sshCloneURLTemplateConstant      = "git@github.com:%s/%s.git"
	unknownTransportTemplateConstant = "unknown clone transport %q"
	sshDirectoryNameConstant         = ".ssh"
	sshPrivateKeyPrefixConstant      = "id_"
	sshPublicKeySuffixConstant       = ".pub"
)

// SSHProbe reports whether SSH cloning looks usable in this environment.
type SSHProbe func() bool

// ParseTransportPolicy validates a transport flag value.
func ParseTransportPolicy(value string) (TransportPolicy, error) {
	normalized := TransportPolicy(strings.ToLower(strings.TrimSpace(value)))
	switch normalized {
	case TransportHTTPS, TransportSSH, TransportAuto:
		return normalized, nil
	case "":
		return TransportAuto, nil
	default:
		return "", fmt.Errorf(unknownTransportTemplateConstant, value)
	}
}

// ResolveCloneURL builds the clone URL for an identifier under the given
// policy, consulting the probe only for TransportAuto.
func ResolveCloneURL(repository identifier.Identifier, policy TransportPolicy, probe SSHProbe) string {
	useSSH := policy == TransportSSH
	if policy == TransportAuto && probe != nil {
		useSSH = probe()
	}

	if useSSH {
		return fmt.Sprintf(sshCloneURLTemplateConstant, repository.Owner, repository.Name)
	}
	return fmt.Sprintf(httpsCloneURLTemplateConstant, repository.Owner, repository.Name)
}

// DefaultSSHProbe looks for a private key under the user's ~/.ssh directory.
func DefaultSSHProbe() bool {
	homeDirectory, homeError := os.UserHomeDir()
	if homeError != nil {
		return false
	}

	entries, readError := os.ReadDir(filepath.Join(homeDirectory, sshDirectoryNameConstant))
	if readError != nil {
		return false
	}

	for _, entry := range entries {
		entryName := entry.Name()
		if strings.HasPrefix(entryName, sshPrivateKeyPrefixConstant) && !strings.HasSuffix(entryName, sshPublicKeySuffixConstant) {
			return true
		}
	}
	return false
}
