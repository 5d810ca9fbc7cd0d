// Package blueprint extracts a structured model of walls, wall segments and
// rooms from a rasterized floor plan.
//
// # Pipeline
//
// Extraction is a single forward pass:
//
//  1. Text removal: lettering and dimension strings are painted white on a
//     copy of the input (RemoveText).
//  2. Binarization of the cleaned image at a fixed ink threshold.
//  3. Segment detection: straight lines found by edge detection and the
//     probabilistic Hough transform (ExtractSegments).
//  4. Walls: long horizontal and vertical runs of ink, merged and traced
//     into polygons classified horizontal or vertical (ExtractWalls).
//  5. Rooms: large regions of the dilated segment drawing (ExtractRooms).
//
// Walls and rooms are computed concurrently; the Model is assembled once
// both are done.
//
// # Model
//
// Model is the persisted artifact. It serializes inside a {"data": ...}
// envelope with polygons as arrays of [x, y] pairs:
//
//	{"data": {
//	  "walls": [{"id": "wall_0", "type": "horizontal",
//	             "polygon": [[9,48],[91,48],[91,52],[9,52]],
//	             "area": 328, "bounds": {"x": 9, "y": 48, "width": 83, "height": 5}}],
//	  "wall_segments": [{"id": "segment_0", "start": [9,48], "end": [91,48], "length": 82}],
//	  "rooms": [],
//	  "image_dimensions": {"width": 100, "height": 100}
//	}}
//
// Degenerate geometry is never an error: polygons with fewer than three
// vertices and zero-length segments are dropped during extraction.
package blueprint
