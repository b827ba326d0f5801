// ABOUTME: Embeds the OAuth consent page template into the binary.
// ABOUTME: Provides templateFS for rendering the authorize endpoint.

package oauth

import "embed"

//go:embed templates/consent.html
var templateFS embed.FS
