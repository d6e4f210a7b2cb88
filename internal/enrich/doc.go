// Package enrich runs the batch pipeline that searches Amazon for water
// filters matching catalog appliance models, records every outcome in a
// resumable progress ledger, and links discovered filters back into the
// catalog.
package enrich
