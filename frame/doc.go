// Package frame defines the pixel and canvas types shared by the playback
// pipeline.
//
// A [Frame] is an immutable-by-convention RGB24 pixel buffer produced by the
// decoder, resized by the scaler, and consumed by the cell renderer. A
// [CanvasSpec] describes the target pixel canvas for one session: its
// dimensions, the [FitMode] used to map arbitrary source frames onto it, and
// the [RenderMode] that determines how pixels fold into terminal cells.
//
// Canvas dimensions are always even. [CanvasSpec.Normalize] rounds odd values
// down so that half-block vertical pairing never straddles a partial cell.
package frame
