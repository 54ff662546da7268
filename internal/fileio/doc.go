// Package fileio implements the filesystem operations behind the
// fileio_* tools.
//
// Operations that accept multiple paths follow a partial-failure
// contract: each path is processed independently and failures are
// captured as per-path records with an error status, so one bad path
// never aborts the rest of the batch. Only malformed input or a fault
// not attributable to a single path surfaces as an error from the
// operation itself.
package fileio
