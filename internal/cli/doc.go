// Package cli implements the command-line interface for swim-archive.
//
// The cli package provides the Cobra-based CLI with commands to search the
// archive for an athlete, reduce their results to personal bests, extract a
// single results page, harvest every competition download link into a CSV
// export, and serve the same operations over HTTP. Output is text or JSON and
// result lists can be sorted by event, time or name.
package cli
