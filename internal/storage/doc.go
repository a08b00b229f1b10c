// Package storage keeps finished runs on disk.
//
// Every run lives in its own directory named by a UUID:
//
//	<base>/<run-id>/metadata.json   run description
//	<base>/<run-id>/rng.zst         zstd-compressed random registry checkpoint
//	<base>/<run-id>/entities.csv    final entity positions
package storage
