package search

const (
	CodeUnknownEndpoint = "UNKNOWN_ENDPOINT"
	CodeBadRequest      = "BAD_REQUEST"
)
