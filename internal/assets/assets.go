package assets

import (
	"path"
	"strings"
)

const (
	Prefix   = "/assets/"
	LogoPath = Prefix + "logo.svg"
)

var rootFiles = map[string]struct{}{
	"/favicon.ico":   {},
	"/robots.txt":    {},
	"/manifest.json": {},
	"/sw.js":         {},
}

var staticExtensions = map[string]struct{}{
	".js":    {},
	".css":   {},
	".wasm":  {},
	".map":   {},
	".png":   {},
	".jpg":   {},
	".jpeg":  {},
	".webp":  {},
	".svg":   {},
	".ico":   {},
	".woff":  {},
	".woff2": {},
	".txt":   {},
}

// IsAssetPath reports whether requestPath is served from the static bundle.
// Outside Prefix only top level files count, so user names such as
// "john.css" still reach the application routes. It never consults the
// file system.
func IsAssetPath(requestPath string) bool {
	if strings.HasPrefix(requestPath, Prefix) {
		return true
	}
	if _, ok := rootFiles[requestPath]; ok {
		return true
	}

	name, ok := strings.CutPrefix(requestPath, "/")
	if !ok || name == "" || strings.Contains(name, "/") {
		return false
	}
	ext := strings.ToLower(path.Ext(name))
	if ext == "" {
		return false
	}

	_, ok = staticExtensions[ext]
	return ok
}

var ascendancies = map[string]struct{}{
	"ascendant": {}, "assassin": {}, "berserker": {}, "champion": {}, "chieftain": {},
	"deadeye": {}, "elementalist": {}, "gladiator": {}, "guardian": {}, "hierophant": {},
	"inquisitor": {}, "juggernaut": {}, "necromancer": {}, "occultist": {}, "pathfinder": {},
	"raider": {}, "saboteur": {}, "slayer": {}, "trickster": {}, "warden": {},
	"duelist": {}, "marauder": {}, "ranger": {}, "scion": {}, "shadow": {}, "templar": {}, "witch": {},
}

// AscendancyImage returns the bundled portrait for an ascendancy or class
// name, or "" when the bundle has none.
func AscendancyImage(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	if _, ok := ascendancies[key]; !ok {
		return ""
	}

	return Prefix + "asc/" + key + ".png"
}

var ascendancyColors = map[string]string{
	"duelist":  "#c07a3e",
	"marauder": "#b33a3a",
	"ranger":   "#5fa336",
	"scion":    "#d1c3a0",
	"shadow":   "#4a7ac2",
	"templar":  "#8a5fb3",
	"witch":    "#3a9fb3",
}

var ascendancyClass = map[string]string{
	"slayer": "duelist", "gladiator": "duelist", "champion": "duelist",
	"juggernaut": "marauder", "berserker": "marauder", "chieftain": "marauder",
	"deadeye": "ranger", "pathfinder": "ranger", "raider": "ranger", "warden": "ranger",
	"ascendant": "scion",
	"assassin": "shadow", "saboteur": "shadow", "trickster": "shadow",
	"inquisitor": "templar", "hierophant": "templar", "guardian": "templar",
	"necromancer": "witch", "elementalist": "witch", "occultist": "witch",
}

// AscendancyColor returns the accent color of the base class for an
// ascendancy or class name.
func AscendancyColor(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	if class, ok := ascendancyClass[key]; ok {
		key = class
	}

	return ascendancyColors[key]
}
