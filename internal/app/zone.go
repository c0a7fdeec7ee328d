package app

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/zjrosen/surfaces/internal/surface"
)

// Zone ID format:
// - Occurrence frames: surface:{handle}
// - Toolbar buttons:   toolbar:{id}
//
// Occurrence zones key on the binder handle rather than the tree
// position so a click maps to the exact mount even while positions
// shift across reloads.
const (
	zoneSurfacePrefix = "surface:"
	zoneToolbarPrefix = "toolbar:"
)

// makeSurfaceZoneID creates a zone ID for an occurrence frame.
func makeSurfaceZoneID(h uuid.UUID) string {
	return zoneSurfacePrefix + h.String()
}

// makeToolbarZoneID creates a zone ID for a toolbar button.
func makeToolbarZoneID(id surface.ID) string {
	return fmt.Sprintf("%s%d", zoneToolbarPrefix, id)
}

// parseToolbarZoneID extracts the surface ID from a toolbar zone ID.
// Returns (0, false) for foreign zone IDs.
//
//nolint:unused // Used in zone_test.go for round-trip verification
func parseToolbarZoneID(zoneID string) (surface.ID, bool) {
	if !strings.HasPrefix(zoneID, zoneToolbarPrefix) {
		return 0, false
	}
	n, err := strconv.ParseUint(strings.TrimPrefix(zoneID, zoneToolbarPrefix), 10, 64)
	if err != nil {
		return 0, false
	}
	return surface.ID(n), true
}
