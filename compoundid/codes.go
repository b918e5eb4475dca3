package compoundid

// CodeObjectNotFound is returned for malformed and dangling identifiers alike.
const CodeObjectNotFound = "OBJECT_NOT_FOUND"
