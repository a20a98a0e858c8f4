// Package analysis provides tools for characterizing recorded runs.
//
// The package works on metric series produced by the runner and on live
// simulations:
//
//   - [PowerSpectrum]: magnitude spectrum of a series, zero-padded to a power of two
//   - [DominantBin]: strongest non-DC bin of a spectrum
//   - [Summarize]: mean, deviation and range of a series
//   - [SettleTick]: first tick after which a series stays near its final value
//   - [SeparationExponent]: growth rate of a small perturbation
//
// # Oscillation Detection
//
// Chasing patterns show up as a periodic kinetic energy series:
//
//	ps := analysis.PowerSpectrum(series["kinetic_energy"])
//	bin := analysis.DominantBin(ps)
//	period := analysis.BinPeriod(bin, len(series["kinetic_energy"]), dt)
package analysis
