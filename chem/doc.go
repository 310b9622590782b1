// Package chem declares the chemistry record schemas: compounds, the
// apparatus used for a measurement, thermal and physical properties, and
// NMR spectra.
//
// Property schemas bind their compound: a property found in a sentence is
// completed with the compound mentioned nearby, and nested records such as
// NMR peaks inherit the compound of the spectrum that holds them.
package chem
