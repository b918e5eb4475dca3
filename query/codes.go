package query

const (
	CodeMissingField             = "MISSING_FIELD"
	CodeInvalidLogic             = "INVALID_LOGIC"
	CodeMissingResultVariantKeys = "MISSING_RESULT_VARIANT_KEYS"
	CodeBadRequest               = "BAD_REQUEST"
)
