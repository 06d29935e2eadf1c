// Package payload encodes and decodes the drag envelope exchanged between a drag
// source and a drop target.
package payload
