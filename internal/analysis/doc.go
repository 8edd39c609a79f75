// Package analysis inspects mode mappings and particle fields.
//
// The package includes tools for looking at a field without rendering it:
//
//   - [Sweep]: frequency to mode table across a band
//   - [Density]: 2D histogram of particle positions
//   - [FieldGrid]: sampled magnitude of the mean eigenfunction
//   - [NodalCorrelation]: how closely particle lift tracks field energy
//   - [GridToASCII]: shaded text rendering of a density or field grid
//
// # Settling
//
// Particles collect where the field is near zero, so after a few hundred
// frames the density grid should look like the inverse of the field grid:
//
//	field := analysis.FieldGrid(modes, chladni.DefaultCoefficients, 64, 64)
//	dens := analysis.Density(positions, 64)
//	fmt.Print(analysis.GridToASCII(dens))
package analysis
