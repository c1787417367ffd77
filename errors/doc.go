// Package errors turns internal failures into actionable CLI messages.
//
// Commands wrap errors before printing them so the user sees what went
// wrong and what to do about it, while the underlying error stays
// available for errors.Is checks and the exit code.
package errors
