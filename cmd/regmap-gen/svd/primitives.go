package svd

import (
	"encoding/xml"
	"strconv"
	"strings"
)

// Integer is an SVD scaled non-negative integer: decimal, 0x hexadecimal or
// # binary.
type Integer uint64

func ParseInteger(v string) (Integer, error) {
	v = strings.TrimSpace(v)

	var (
		value uint64
		err   error
	)
	switch {
	case strings.HasPrefix(v, "0x"), strings.HasPrefix(v, "0X"):
		value, err = strconv.ParseUint(v[2:], 16, 64)
	case strings.HasPrefix(v, "#"):
		value, err = strconv.ParseUint(v[1:], 2, 64)
	default:
		value, err = strconv.ParseUint(v, 10, 64)
	}
	return Integer(value), err
}

func (h *Integer) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var v string
	if err := d.DecodeElement(&v, &start); err != nil {
		return err
	}

	value, err := ParseInteger(v)
	if err != nil {
		return err
	}
	*h = value
	return nil
}

// Access is the register or field access mode.
type Access string

const (
	ReadOnly      Access = "read-only"
	WriteOnly     Access = "write-only"
	ReadWrite     Access = "read-write"
	WriteOnce     Access = "writeOnce"
	ReadWriteOnce Access = "read-writeOnce"
)

// Short is the annotation used in register offset comments.
func (a Access) Short() string {
	switch a {
	case ReadOnly:
		return "R"
	case WriteOnly, WriteOnce:
		return "W"
	}
	return "RW"
}
