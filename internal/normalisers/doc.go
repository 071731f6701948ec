// Package normalisers provides implementations of the Normaliser interface
// for scanned file formats. Each normaliser knows how to split a file of a
// specific MIME type into page images.
//
// Normalisers are registered with the Registry at startup.
package normalisers
