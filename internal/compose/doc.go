// Package compose turns a background-free cutout into a finished image.
//
// A Pipeline runs the fixed sequence
//
//	cutout -> drop shadow -> tone adjustments -> background -> PNG
//
// over a Request and returns the encoded result with its output filename.
// Bad color text, bad gradient descriptors and undecodable background
// images never abort a request: each falls back to a usable default and is
// reported as a diagnostic string in the Result and on the Pipeline's
// logger. Only resource failures (ErrCanvasTooLarge, encode errors) are
// returned as errors.
//
// Compose performs the background step on its own and can be used without
// a Pipeline.
//
// A Pipeline holds configuration only and is safe for concurrent use.
package compose
