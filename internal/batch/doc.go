// Package batch plans a video into segments and runs the enrichment pipeline
// for each of them on a bounded worker pool.
//
// Results come back in plan order regardless of completion order. The batch
// is all_succeeded only when every segment produced its clip; optional stage
// failures never change the batch status.
package batch
