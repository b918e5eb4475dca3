package filter

const (
	CodeBadRequest          = "BAD_REQUEST"
	CodeUnknownField        = "UNKNOWN_FIELD"
	CodeFieldNameSuggestion = "FIELD_NAME_SUGGESTION"
	CodeBadInputType        = "BAD_INPUT_TYPE"
)
