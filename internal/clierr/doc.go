// Package clierr provides typed sentinel errors for seekgits.
//
// Using sentinel errors lets callers branch on specific failure modes
// with errors.Is() instead of string matching, and lets the filter
// engine (which must degrade failures to pass-through rather than
// propagate them) distinguish "no access" from "not tracked" from
// "corrupt manifest" without parsing messages.
package clierr
