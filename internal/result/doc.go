// Package result provides the swim result record and the normalization rules
// applied to it.
//
// The result package parses free-text race times into a canonical display form
// and a comparable number of seconds, classifies event descriptions into
// distance, stroke and course, and reduces an athlete's results to one personal
// best per (distance, stroke, course) combination.
package result
