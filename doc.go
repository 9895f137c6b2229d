// Package fcn provides the domain model and the pure computations of a small,
// local-first book of structured notes (Fixed Coupon Notes and other worst-of
// autocallables) held on behalf of several clients.
//
// The core functionalities include:
//   - Book Management: clients, their positions and the market price table,
//     owned by a single coordinating [Book] that serializes writes.
//   - Ticker Matching: tickers coming from different sources (manual entry,
//     pasted text, spreadsheets) are compared through [NormalizeTicker], and
//     prices are looked up with [Prices.Resolve] which tolerates notation drift.
//   - Risk Classification: [Classify] projects a position against the price
//     table, selects the worst performer (the laggard) and derives the barrier
//     status (KI hit, near KI, KO ready or normal) and the monthly coupon.
//   - Export: [WriteCSV] produces the spreadsheet-compatible export.
//
// Importing spreadsheets lives in the importer and tabular packages, sharing
// snapshots in the share package, and retrieving remote content in the fetch
// package. This package serves as the foundational logic for the `fcn`
// command-line tool.
package fcn
