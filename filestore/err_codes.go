package filestore

// Error codes for filestore operations.
const (
	// CodeFileNotFound is returned when no object exists at the path.
	CodeFileNotFound = "FILE_NOT_FOUND"

	// CodeFileTooLarge is returned when an object exceeds the read limit.
	CodeFileTooLarge = "FILE_TOO_LARGE"
)
