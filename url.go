package sceneui

import (
	"fmt"
	"strings"
)

// DefaultPublicHost is the host:port the web UI links point at.
const DefaultPublicHost = "192.168.68.105:3000"

// WebUIURL builds the link to the web UI page for a description and category.
// Only spaces are escaped (as %20), every other character is passed through
// verbatim, so the result is not guaranteed to be a valid URL.
func WebUIURL(host, description, category string) string {
	return fmt.Sprintf("http://%s/web_ui?desc=%s&cat=%s",
		host,
		strings.ReplaceAll(description, " ", "%20"),
		strings.ReplaceAll(category, " ", "%20"))
}
