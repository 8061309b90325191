// Package validate provides a small rule-based validation framework used to
// check recipient payloads before dispatch.
//
// Validation is expressed as a list of Rule values executed by Apply, which
// collects every failing rule into a ValidationErrors value instead of
// stopping at the first failure. Field names are plain strings so callers can
// encode positional information, e.g. "recipients[2].phone".
package validate
