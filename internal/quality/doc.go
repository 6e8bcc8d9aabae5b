// Package quality owns the quality tiers a download can be transcoded at.
//
// A single Level enum covers both the named tiers and forced output
// resolutions: best scales to 8K, good to 4K, medium to 2K, native keeps the
// source resolution, and low trades quality for encoder speed. Each Level maps
// to exactly one Profile in a fixed table.
package quality
