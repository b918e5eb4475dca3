package federation

// CodeComponentFailed marks a remote call that failed after every retry.
const CodeComponentFailed = "COMPONENT_FAILED"
