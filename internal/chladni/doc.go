// Package chladni provides the numerical kernel behind the particle field.
//
// The package maps sounding frequencies to plate modes and moves particles
// across the unit square [-1, 1]² according to the resulting standing wave:
//
//   - [Mapper]: frequency to (m, n) mode pair, a blend of a linear and a
//     logarithmic estimate over a reference [Band]
//   - [Evaluate]: closed-form Chladni eigenfunction at a point
//   - [MeanValue]: average of the eigenfunction over several active modes
//   - [Update]: one frame of the bounded random walk over a position buffer
//   - [Field]: owns a position buffer, its parameters and its random source
//
// # Buffer Layout
//
// Positions are stored flat as x, y, z triples ([Stride] floats per
// particle). x and y are always clamped to [-1, 1]; z is a cosmetic lift
// recomputed every frame from the local amplitude and is never read back.
//
// # Example
//
//	mapper := chladni.KeyboardMapper()
//	field, _ := chladni.NewField(20000, chladni.DefaultParams(), chladni.NewSource(seed))
//	field.Step(mapper.MapAll([]float64{440, 659.26}))
//	draw(field.Positions())
//
// # Thread Safety
//
// [Field] is NOT safe for concurrent use. [Update] parallelizes internally
// over large buffers; callers must not touch the buffer while it runs.
package chladni
