// Package types defines the core data types used throughout the report engine.
//
// Key types:
//   - Statistic / AggregationKind: the measured statistic and merge mode
//   - RunConfig: the benchmark scenario identity (pattern, block size, engine, depth)
//   - RunStats: per-run summary statistics as reported by fio
//   - BucketedSeries: a fixed-length, time-bucketed value series
package types
