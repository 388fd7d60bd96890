// Package markup rewrites report text into the inline HTML dialect used by the
// layout renderer.
//
// Two transforms live here:
//   - Normalize rewrites chemical notation (CO2, CH4, H2O, H2S) into subscript
//     markup. It is applied once to the whole report before block parsing.
//   - Format rewrites one line of inline markdown (bold, italic, code spans)
//     into HTML and then normalizes its notation.
//
// Both are pure string functions and safe for concurrent use.
package markup
