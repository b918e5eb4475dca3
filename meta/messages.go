package meta

var enMessages = map[string]string{ //nolint:gochecknoglobals // static table
	"BAD_REQUEST":                 "The request is malformed.",
	"UNKNOWN_FIELD":               "The filter refers to an unknown field.",
	"FIELD_NAME_SUGGESTION":       "The filter refers to an unknown field. See the suggestion.",
	"BAD_INPUT_TYPE":              "The filter value cannot be compared with the field.",
	"MISSING_FIELD":               "A required field is missing or invalid.",
	"MISSING_RESULT_VARIANT_KEYS": "Variant results need a gene or a full region.",
	"INVALID_LOGIC":               "The query logic is invalid.",
	"BAD_PAGE_SIZE":               "The page size must not be negative.",
	"BAD_PAGE_TOKEN":              "The page token is malformed.",
	"NOT_AUTHORIZED":              "Not authorized to access this dataset.",
	"OBJECT_NOT_FOUND":            "The requested object was not found.",
	"UNKNOWN_ENDPOINT":            "The requested endpoint does not exist.",
	"COMPONENT_FAILED":            "A query component could not be evaluated.",
	"VALIDATION_FAILED":           "Validation failed. See fields for details.",
	"EXPIRED_TOKEN":               "The access token has expired.",
	"INVALID_TOKEN":               "The access token is invalid.",
	"BAD_ACCESS_MAP":              "The access token carries a malformed access map.",
	"MISSING_TOKEN":               "An access token is required.",
	"INVALID_CONTENT_TYPE":        "Content type must be application/json.",
	"INVALID_JSON_BODY":           "The request body is not valid JSON.",
	"INVALID_PATH_PARAMS":         "The request path is invalid.",
	"ROUTER_ERROR":                "The route could not be served.",
}
