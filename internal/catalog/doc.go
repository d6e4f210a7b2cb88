// Package catalog persists the appliance-consumables catalog in SQLite and
// exposes the operations the enrichment pipeline and the query API need.
//
// The Store manages the database connection, schema initialization, candidate
// model listing, and the transactional consumable upsert/link used when the
// enrichment run discovers a replacement part. Grouped read models back the
// HTTP query API, and ImportCSV loads catalog rows from the canonical CSV
// export.
//
// Schema changes bump the version in schema.go; the database is rebuilt from
// the CSV export to adopt a new schema.
package catalog
