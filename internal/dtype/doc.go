// Package dtype decodes raw vendor sample buffers into float64 slices.
//
// Spectrometer data files store intensities as flat arrays of fixed-width
// elements. Some formats declare the element type and byte order in their
// descriptor (BES3T: IRFMT and BSEQ), others share a file extension between
// two incompatible encodings (WinEPR EMX float32 little-endian vs. ESP int32
// big-endian). This package covers both cases:
//
//   - [Decode] converts a buffer under a known [Encoding]
//   - [Band.Plausible] tests whether decoded values look like intensities
//   - [DecodeWithFallback] tries one encoding and switches to a second when
//     the first result is implausible
//   - [Reshape] turns a flat 2-D buffer into a primary-axis-major matrix
//
// # Plausibility
//
// A buffer is plausible when every non-zero value has a magnitude within the
// inclusive-exclusive band [Lower, Upper). Exact zeros never violate the band,
// so an all-zero buffer is trivially plausible. Decoding under the wrong byte
// order typically yields denormals or astronomically large exponents, both of
// which fall outside any reasonable band.
//
// The fallback switches hypotheses at most once. When neither encoding is
// plausible, the second result is still returned; validating the numbers is
// left to downstream analysis.
package dtype
