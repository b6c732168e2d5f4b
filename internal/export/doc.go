// Package export writes tables for the visualization layer.
//
// An export produces two files in the configured interim directory:
//
//   - the data file, parquet or CSV depending on the filename extension
//   - a JSON sidecar named <stem>_meta.json describing it
//
// Example sidecar:
//
//	{
//	  "file": "example.parquet",
//	  "primary_key": "row_id",
//	  "columns": {
//	    "a": "int64",
//	    "b": "string",
//	    "row_id": "int64"
//	  },
//	  "provenance": {
//	    "script": "analysis/clean.go",
//	    "git_commit": "8f2c1a9d1234",
//	    "config": "/repo/config/config.yaml"
//	  }
//	}
//
// The data file is written before the sidecar. Each write is atomic, but the
// pair is not: if the sidecar write fails the data file is left in place.
package export
