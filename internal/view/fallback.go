package view

import (
	"fmt"
)

// RenderFallback is the stateless degraded view shown when the engine
// cannot initialize. It reports the count of the unfiltered dataset, since
// the interactive filter surface is gone with the map.
func RenderFallback(totalMarkers int, tr Translations) string {
	return fmt.Sprintf(tr.Get(KeyMapUnavailable), totalMarkers)
}
