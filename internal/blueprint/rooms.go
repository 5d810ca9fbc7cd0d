package blueprint

import (
	"fmt"

	"github.com/ironsheep/blueprint-tools/internal/config"
	"github.com/ironsheep/blueprint-tools/internal/detection"
	"github.com/ironsheep/blueprint-tools/internal/imaging"
)

// ExtractRooms returns one Room per external component of mask whose area
// reaches the room floor. Rooms are never classified and carry no link to
// the walls that produced the mask.
//
// cfg.MinArea defaults to 1000 square pixels, which keeps closets on a
// typical 1600px plan but drops the small loops left by door swings.
func ExtractRooms(mask *imaging.Mask, cfg config.Rooms) []Room {
	rooms := make([]Room, 0)
	for _, c := range detection.FindExternalContours(mask) {
		area := c.Area()
		if area < cfg.MinArea {
			continue
		}
		poly := detection.ApproxPolygon(c, cfg.Epsilon)
		if len(poly) < 3 {
			continue
		}
		rooms = append(rooms, Room{
			ID:      fmt.Sprintf("room_%d", len(rooms)),
			Polygon: toPolygon(poly),
			Area:    area,
		})
	}
	return rooms
}
