// Package ucdef defines the use case shapes shared by the transports.
package ucdef

import "context"

// Use case types.
const (
	TypeUserAction    = "user_action"
	TypeManualCommand = "manual_command"
)

// UserAction is a synchronous operation triggered by a caller over HTTP or
// by a CLI command that expects a structured answer.
//
// Type parameters:
//   - I: input (request payload), a pointer to a struct
//   - O: output (response)
//
// Examples: SearchEndpoint, AdvancedQuery, CountQuery.
type UserAction[I, O any] interface {
	// OperationID returns a unique identifier for the use case.
	OperationID() string

	// Execute executes the use case.
	Execute(ctx context.Context, in I) (O, error)
}

// ManualCommand is an administrative operation run by an operator from the
// CLI. Success or failure is reported through the error and logs only.
//
// Examples: PushSnapshot.
type ManualCommand[I any] interface {
	// OperationID returns a unique identifier for the use case.
	OperationID() string

	// Execute executes the manual command.
	Execute(ctx context.Context, in I) error
}
