package notes

import (
	"context"
	"strings"
	"time"
)

// RemoteItem is one entry of a cloud storage folder listing.
type RemoteItem struct {
	ID          string
	Name        string
	Folder      bool
	WebLink     string
	Description string
	CreatedTime time.Time
}

// Provider lists folders in an external storage backend. Implemented
// by the drive package; fakes stand in for it in tests.
type Provider interface {
	ListFolder(ctx context.Context, folderID string) ([]RemoteItem, error)
}

// ParseDescription extracts hash-prefixed tags and an optional
// reference link from a remote item's free-form description.
func ParseDescription(description string) (tags []string, link string) {
	tags = []string{}
	for _, part := range strings.Split(description, ",") {
		part = strings.TrimSpace(part)
		switch {
		case part == "":
		case strings.HasPrefix(part, "#"):
			tags = append(tags, part)
		case strings.HasPrefix(part, "http"):
			link = part
		}
	}
	return tags, link
}
