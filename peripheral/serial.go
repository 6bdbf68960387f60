package peripheral

import "io"

// Serial is a byte stream device. Reads never block; when nothing has
// arrived they report ErrNoData.
type Serial interface {
	io.ReadWriter
	io.StringWriter
	io.ByteReader
	io.ByteWriter
}
