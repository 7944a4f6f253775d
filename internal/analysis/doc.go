// Package analysis inspects recorded runs.
//
//   - [PowerSpectrum] and [DominantFrequency]: oscillation of the platform angle
//   - [NewPhasePortrait]: position against angle, rendered with [PhasePortraitToASCII]
//   - [Crossings]: times at which a signal passes upward through a level
package analysis
