// Package insight turns a window of health readings into summary statistics,
// rule-based tips, chart series and a display payload.
//
// Every function here is pure: the window is passed in, output is built from
// scratch on each call and nothing is cached between calls. Callers fetch the
// window from a domain.ReadingRepository and hand the result to the adapters.
package insight
