// Package errs provides standardized error types for the marketplace service.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package includes several error types for common error scenarios:
//   - ValueIsRequiredError: a required value is missing
//   - ValueIsInvalidError: a value is malformed
//   - ValueIsOutOfRangeError: a value lies outside its allowed bounds
//   - ObjectNotFoundError: an object cannot be found
//   - ActorIsUnauthorizedError: the acting party may not perform the operation
//   - TransitionIsInvalidError: no edge exists between two lifecycle states
//   - VersionIsInvalidError: the stored state changed underneath a conditional write
//   - RequestIsDuplicateError: an idempotency key was replayed
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method returning the sentinel so callers can classify with errors.Is
package errs
