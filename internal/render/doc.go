// Package render turns a blueprint model back into an image.
//
// Render produces a raster: segments, then translucent wall fills with
// outlines and labels, then room outlines. SVG produces the same drawing as
// a vector document. Overlay and Blend build the debug views written next
// to an extraction trace.
//
// Canvas size is taken from, in order: an explicit Size, the model's
// image_dimensions, the configured default (1600×1200).
package render
