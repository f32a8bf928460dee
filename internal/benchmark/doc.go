// SPDX-License-Identifier: MPL-2.0

// Package benchmark holds benchmarks for the argument resolution hot paths:
// schema decoding against the CUE contract, normalization, tokenizing and
// full resolution. They double as the workload for PGO profile generation:
//
//	go test -run '^$' -bench . -cpuprofile default.pgo ./internal/benchmark
package benchmark
