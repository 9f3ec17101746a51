// Package httpapi exposes the compositing pipeline over HTTP.
//
// The API mirrors the upload form of the web front end: a multipart POST
// carrying the source image, the background choice, shadow and tone
// parameters, answered with the finished PNG as an attachment.
//
//	POST /api/remove-background   (alias: /api/compose)
//	GET  /                        welcome message
//
// Uploads pass through a Remover before compositing. The default Remover
// returns its input untouched, so callers are expected to upload images
// whose background is already transparent unless they plug in a real one.
package httpapi
