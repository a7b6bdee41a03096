// Package pipeline runs image reviews as an ordered list of steps.
//
// A review starts from an image path and accumulates, step by step, the
// file digest, the metadata findings, the analysis response and the history
// bookkeeping in a model.ImageReview. Each step can read what earlier steps
// recorded.
//
// BatchProcessor reviews several images concurrently with a bounded number
// of goroutines, using errgroup.
package pipeline
