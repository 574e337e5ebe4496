// Package imageutil provides the pure Go numeric image primitives used to
// build distorted letter stimuli: square float fields, bilinear grid
// resampling, band-pass filtered noise, edge windows, resizing and io.
package imageutil
