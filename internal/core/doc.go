// Package core reconciles the member extracts into the master list.
//
// This package holds the domain logic independent of any transport. The CLI
// and the web server both drive it through [Service]; tests call
// [Reconcile] directly with in-memory tables.
//
// # Pipeline
//
// A run is a fixed sequence of pure steps, each taking and returning an
// immutable table:
//
//  1. Prepare each source (package sources): project, filter, suppress
//     withheld contact details, aggregate positions into role flags.
//  2. [Join] every prepared source onto the jobs spine with left joins,
//     then drop the helper key columns.
//  3. [Normalize] names, emails and the cell phone.
//  4. Drop exact duplicate rows.
//  5. [Finalize]: flags become Y/N and columns get their publication names.
//
// Any error aborts the run. [Service.Execute] writes the output file only
// after every step succeeded.
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each category has a code for support reference:
//
//   - SCH001-SCH003: Schema errors (missing columns, column order, header map)
//   - FILE001-FILE004: File errors (not found, invalid CSV, empty, output)
//   - DB001-DB003: Publish errors
//   - RUN001-RUN005: Run errors (not found, busy, cancelled, timeout, no output)
package core
