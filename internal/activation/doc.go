// Package activation reads, filters and writes per-track activation
// confidence tables.
//
// A table is a CSV file whose header must contain a time column; every other
// column is named after a stem identifier. Filtering against a metadata record
// keeps time first and then the columns of stems the record still lists.
package activation
