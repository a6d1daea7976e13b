// Package ui contains the interactive terminal components of hk: the
// multi-select hook picker used by `hk run -i` and table rendering
// for list output.
//
// Interactive elements render to stderr so hook and data output on
// stdout stays pipeable.
package ui
