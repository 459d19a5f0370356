// Package analysis post-processes the diagnostics of finished runs.
//
//   - [PowerSpectrum] and [DominantFrequency]: sloshing frequency of a
//     diagnostics column such as kinetic energy
//   - [NewPortrait]: one column plotted against another
//   - [Sweep]: a final diagnostic as a function of one solver parameter
//
// # Sloshing
//
// A dam break settles into a standing wave whose period shows up as the
// dominant frequency of the kinetic energy:
//
//	ke, _ := metrics.Column(rows, "kinetic_energy")
//	f := analysis.DominantFrequency(ke, dt*float64(sampleEvery))
package analysis
