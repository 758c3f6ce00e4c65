// Package conv holds checked integer conversions for sizes and offsets that
// come from files, archive headers or callers.
//
// Conversions that are safe by construction, such as unit ids below the
// array length, use plain casts instead.
package conv
