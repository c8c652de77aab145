// Package loaders provides implementations of the Loader interface for
// the supported document formats. Each loader knows how to extract text
// content from a specific file type selected by extension.
//
// Loaders are registered with the Registry at startup.
package loaders
