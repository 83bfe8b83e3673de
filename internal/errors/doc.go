// Package errors provides the structured error type shared by every layer of
// agency-sheet.
//
// An *Error carries a Code, a user-facing Message, an optional Cause and
// free-form metadata. Codes survive wrapping, so a NotFound raised by the
// draft repository is still a NotFound when the CLI or the preview server
// reports it.
//
// # Basic Usage
//
//	err := errors.NotFoundf("draft %s not found", id)
//	err := errors.InvalidArgument("draft cannot be nil")
//
// Adding metadata:
//
//	return errors.Wrap(err, "failed to write record").
//	    WithMeta("path", jsonPath)
//
// # Validation Errors
//
//	vb := errors.NewValidationBuilder()
//	errors.ValidateRequired("姓名", record.Name, vb)
//	if err := vb.Build(); err != nil {
//	    return err
//	}
//
// # Layer Guidelines
//
// Catalog and form helpers never return errors for bad reference data; they
// treat it as "no data". Repositories return NotFound/InvalidArgument/Internal.
// The PDF converter returns FailedPrecondition when no browser is available,
// DeadlineExceeded on timeout and Internal with the browser's diagnostic output
// otherwise. The HTTP handlers translate codes with Code.HTTPStatus.
package errors
