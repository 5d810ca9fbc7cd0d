// Package imaging provides the raster primitives used by the blueprint
// extraction pipeline.
//
// This package implements image loading and encoding, binarization into
// foreground masks, rectangular morphology, and edge detection. All
// operations work with standard Go image.Image types and use a coordinate
// system where (0,0) is at the top-left corner, X increases rightward, and
// Y increases downward.
//
// # Masks
//
// A Mask is a width×height grid of foreground flags. Dark ink on a light
// background is foreground. Masks always have the same dimensions as the
// raster they were derived from.
//
// # Immutability
//
// Every function returns a new image or mask and leaves its inputs
// untouched, so the same decoded image can be processed by many goroutines
// at once. The ImageCache type is safe for concurrent use.
//
// # Formats
//
// Only PNG and JPEG are accepted. Anything else, including a corrupt file,
// fails with a *LoadError.
package imaging
