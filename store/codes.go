package store

// Error codes returned by the loaders.
const (
	CodeAlreadySeeded = "CATALOG_ALREADY_SEEDED"
	CodeOrphanRecord  = "ORPHAN_RECORD"
	CodeUnknownSource = "UNKNOWN_SOURCE"
)
