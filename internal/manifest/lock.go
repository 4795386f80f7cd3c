package manifest

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pharoslabs/pharos/internal/core/domain"
)

// EncodeLock serializes a lock as YAML, the artifact format recorded
// alongside built images.
func EncodeLock(l domain.Lock) ([]byte, error) {
	out, err := yaml.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("encoding lock: %w", err)
	}
	return out, nil
}

// DecodeLock parses a YAML lock produced by EncodeLock.
func DecodeLock(data []byte) (domain.Lock, error) {
	var l domain.Lock
	if err := yaml.Unmarshal(data, &l); err != nil {
		return domain.Lock{}, fmt.Errorf("decoding lock: %w", err)
	}
	return l, nil
}

// PinnedRequirements renders a lock in installer format, one "name==version"
// line per pin. This is what the image build feeds to the package installer
// so the installed set exactly matches the resolved set.
func PinnedRequirements(l domain.Lock) string {
	var b strings.Builder
	for _, pin := range l.Pins {
		fmt.Fprintf(&b, "%s==%s\n", pin.Name, pin.Version)
	}
	return b.String()
}
