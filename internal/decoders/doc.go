// Package decoders turns raw file bytes into plain text.
//
// Each subpackage handles one family of formats. The Registry picks a
// decoder for an input by MIME type, then by file extension, and finally
// by sniffing the content.
package decoders
