package domain

import (
	"path/filepath"
	"strings"
	"time"
)

// Project represents a repository the board can spawn workers into.
// Fields are ordered to minimize memory padding.
type Project struct {
	Created       time.Time `json:"created"`                 // Registration time
	ID            string    `json:"id"`                      // Opaque unique identifier
	Path          string    `json:"path"`                    // Absolute repository path (unique)
	Name          string    `json:"name"`                    // Derived from the path's last segment
	DefaultBranch string    `json:"defaultBranch,omitempty"` // Resolved at registration (best effort)
}

// ProjectNameFromPath derives a project name from the last path segment.
func ProjectNameFromPath(path string) string {
	name := filepath.Base(strings.TrimRight(path, "/"))
	if name == "." || name == string(filepath.Separator) {
		return path
	}
	return name
}
