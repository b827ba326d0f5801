// ABOUTME: Embeds widget HTML templates into the binary using go:embed.
// ABOUTME: Provides templateFS for rendering at runtime.

package widgets

import "embed"

//go:embed templates/*.html
var templateFS embed.FS
