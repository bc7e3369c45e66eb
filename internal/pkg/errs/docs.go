// Package errs provides standardized error types for the dispatch service.
// It implements a consistent pattern for error creation, formatting, and
// unwrapping used throughout the application.
//
// Three error families classify every failure the core can surface:
//   - InvalidRequestError: a business-rule violation. The operation is
//     rejected locally and nothing is mutated.
//   - ObjectNotFoundError: a lookup (often scoped by lifecycle status) did
//     not match anything.
//   - UpstreamFailureError: an external collaborator call failed. This is
//     fatal to the enclosing transaction, which is rolled back in full.
//
// Additional value-validation errors (ValueIsRequired, ValueIsInvalid,
// ValueIsOutOfRange) back constructor guards in the domain model.
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g. ErrObjectNotFound)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method so errors.Is matches the sentinel
//
// No error in this package implies a retry: retries, where desired, are a
// caller or operator responsibility.
package errs
