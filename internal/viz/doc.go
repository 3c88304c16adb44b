// Package viz renders telesim output for the terminal.
//
//   - [Canvas]: Braille-based pixel canvas, 2x4 sub-pixels per cell
//   - [FocalPlane]: detector offsets drawn on a canvas
//   - Styles for headers, metric tables and warnings
//
// # Focal plane
//
// Each detector is one dot. The plot is scaled so the widest offset on
// either axis touches the canvas edge, keeping the aspect ratio:
//
//	c := viz.FocalPlane(arr.Dets(), 40, 20)
//	fmt.Print(c)
package viz
