package pagination

const (
	CodeBadPageToken = "BAD_PAGE_TOKEN"
	CodeBadPageSize  = "BAD_PAGE_SIZE"
	CodeBadRequest   = "BAD_REQUEST"
)
