// Package runtime embeds the browser script that performs field checks on
// blur and removes rejection banners once their delay has passed.
package runtime

import (
	"embed"
	"io/fs"
)

//go:embed assets/*.js
var embeddedAssets embed.FS

// ScriptName is the runtime script file name inside AssetsFS.
const ScriptName = "formguard.js"

// AssetsFS exposes the runtime assets rooted at the assets directory.
func AssetsFS() fs.FS {
	sub, err := fs.Sub(embeddedAssets, "assets")
	if err != nil {
		return embeddedAssets
	}
	return sub
}
