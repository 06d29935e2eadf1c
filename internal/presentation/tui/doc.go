// Package tui holds terminal presentation helpers: the banner and the markdown renderer.
package tui
