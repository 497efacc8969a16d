package tree

import (
	"fmt"
	"strings"
	"time"
)

// Stream is one name of an event stream. Several Streams may share an ID; the
// one returned by a directory lookup by ID is canonical, the others are aliases.
type Stream struct {
	// ID is the canonical source identifier.
	ID string `json:"id" yaml:"id"`
	// Name is the human-facing name used in URLs.
	Name string `json:"name" yaml:"name"`
	// TimePath lists the property IRIs that carry the event time.
	TimePath []string `json:"timePath" yaml:"timePath"`
}

// Status of a fragmentation. Disabled fragmentations are invisible to clients.
type Status string

const (
	StatusEnabled  Status = "ENABLED"
	StatusDisabled Status = "DISABLED"
)

// ParseStatus accepts ENABLED or DISABLED in any case.
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToUpper(strings.TrimSpace(s))) {
	case StatusEnabled:
		return StatusEnabled, nil
	case StatusDisabled:
		return StatusDisabled, nil
	default:
		return "", fmt.Errorf("unknown fragmentation status %q", s)
	}
}

// Fragmentation partitions the events of one stream into buckets along Path.
type Fragmentation struct {
	StreamID string   `json:"streamId" yaml:"streamId"`
	Name     string   `json:"name" yaml:"name"`
	Status   Status   `json:"status" yaml:"status"`
	Path     []string `json:"path" yaml:"path"`
	Kind     Kind     `json:"kind" yaml:"kind"`
}

// Enabled reports whether the fragmentation may be served.
func (f Fragmentation) Enabled() bool { return f.Status == StatusEnabled }

// Event is an immutable, timestamped set of statements. Payload holds N-Quads.
type Event struct {
	StreamID  string
	// ID is the member IRI the event describes.
	ID        string
	Timestamp time.Time
	Payload   string
}

// Bucket is one node of a fragmentation tree.
type Bucket struct {
	Value     string `json:"value" yaml:"value"`
	DataType  string `json:"dataType" yaml:"dataType"`
	Remaining int64  `json:"remaining" yaml:"remaining"`
}
