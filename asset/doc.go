// Package asset loads puppet descriptors and keeps the library of loaded
// assets the UI can pick from.
//
// Loaders turn a path into an immutable api.Asset. I/O failures surface as
// *ReadError and malformed content as *FormatError, so callers can tell a
// missing file from a broken one with errors.Is against api.ErrAssetRead and
// api.ErrAssetFormat.
//
// Library loads run synchronously or in the background. Background results
// queue in an inbox that the UI goroutine drains with Poll; loader goroutines
// never touch the display slot.
package asset
