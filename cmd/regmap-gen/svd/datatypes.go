// Package svd decodes the subset of CMSIS-SVD device descriptions needed to
// lay out peripheral registers.
package svd

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

type DeviceElement struct {
	Name          string             `xml:"name"`
	Description   string             `xml:"description"`
	Series        string             `xml:"series"`
	Version       string             `xml:"version"`
	Vendor        string             `xml:"vendor"`
	CPU           CPUElement         `xml:"cpu"`
	BitWidth      Integer            `xml:"width"`
	RegisterSize  Integer            `xml:"size"`
	DefaultAccess Access             `xml:"access"`
	Peripherals   PeripheralsElement `xml:"peripherals"`
}

type CPUElement struct {
	Name     string `xml:"name"`
	Revision string `xml:"revision"`
	Endian   string `xml:"endian"`
}

type PeripheralsElement struct {
	Elements []PeripheralElement `xml:"peripheral"`
}

func (p PeripheralsElement) Find(name string) (int, bool) {
	if len(name) > 0 {
		for i, pp := range p.Elements {
			if pp.Name == name {
				return i, true
			}
		}
	}
	return -1, false
}

type PeripheralElement struct {
	Name         string              `xml:"name"`
	Description  string              `xml:"description"`
	Group        string              `xml:"groupName"`
	Prepend      string              `xml:"prependToName"`
	BaseAddress  Integer             `xml:"baseAddress"`
	RegisterSize Integer             `xml:"size"`
	Access       Access              `xml:"access"`
	AddressBlock AddressBlockElement `xml:"addressBlock"`
	Interrupts   []InterruptElement  `xml:"interrupt"`
	Registers    RegistersElement    `xml:"registers"`
	DerivedFrom  string              `xml:"derivedFrom,attr"`
}

type AddressBlockElement struct {
	Offset Integer `xml:"offset"`
	Size   Integer `xml:"size"`
}

type InterruptElement struct {
	Name        string  `xml:"name"`
	Description string  `xml:"description"`
	Value       Integer `xml:"value"`
}

type RegistersElement struct {
	RegisterElements []RegisterElement `xml:"register"`
}

type RegisterElement struct {
	Name          string        `xml:"name"`
	Description   string        `xml:"description"`
	AddressOffset Integer       `xml:"addressOffset"`
	Size          Integer       `xml:"size"`
	Access        Access        `xml:"access"`
	Fields        FieldElements `xml:"fields"`
	Count         Integer       `xml:"dim"`
	Increment     Integer       `xml:"dimIncrement"`
	Index         string        `xml:"dimIndex"`
}

type FieldElements struct {
	Elements []FieldElement `xml:"field"`
}

type FieldElement struct {
	Name        string  `xml:"name"`
	Description string  `xml:"description"`
	BitOffset   Integer `xml:"bitOffset"`
	BitWidth    Integer `xml:"bitWidth"`
	BitRange    string  `xml:"bitRange"`
	Access      Access  `xml:"access"`
}

// Bits returns the field position and width, from bitOffset/bitWidth or a
// [msb:lsb] bit range.
func (f FieldElement) Bits() (offset, width uint, err error) {
	if len(f.BitRange) == 0 {
		width = uint(f.BitWidth)
		if width == 0 {
			width = 1
		}
		return uint(f.BitOffset), width, nil
	}

	var msb, lsb uint
	if _, err := fmt.Sscanf(f.BitRange, "[%d:%d]", &msb, &lsb); err != nil {
		return 0, 0, fmt.Errorf("field %s: bit range %q: %w", f.Name, f.BitRange, err)
	}
	if msb < lsb {
		return 0, 0, fmt.Errorf("field %s: bit range %q is reversed", f.Name, f.BitRange)
	}
	return lsb, msb - lsb + 1, nil
}

// Decode reads a device description and resolves derivedFrom peripherals
// by copying the registers of the peripheral they name.
func Decode(r io.Reader) (DeviceElement, error) {
	var device DeviceElement
	if err := xml.NewDecoder(r).Decode(&device); err != nil {
		return DeviceElement{}, err
	}

	elements := device.Peripherals.Elements
	for i := range elements {
		p := &elements[i]
		if len(p.DerivedFrom) == 0 {
			continue
		}
		j, ok := device.Peripherals.Find(p.DerivedFrom)
		if !ok {
			return DeviceElement{}, fmt.Errorf("peripheral %s derives from unknown %s", p.Name, p.DerivedFrom)
		}
		base := elements[j]
		if len(p.Registers.RegisterElements) == 0 {
			p.Registers = base.Registers
		}
		if len(p.Group) == 0 {
			p.Group = base.Group
		}
		if len(p.Description) == 0 {
			p.Description = base.Description
		}
		if p.AddressBlock.Size == 0 {
			p.AddressBlock = base.AddressBlock
		}
	}
	return device, nil
}

// Expand returns r once per dim index with %s substituted, or r alone when
// it is not an array.
func (r RegisterElement) Expand() []RegisterElement {
	if r.Count == 0 {
		return []RegisterElement{r}
	}

	indices := make([]string, r.Count)
	if parts := strings.Split(r.Index, ","); len(r.Index) > 0 && len(parts) == int(r.Count) {
		copy(indices, parts)
	} else {
		for i := range indices {
			indices[i] = fmt.Sprint(i)
		}
	}

	regs := make([]RegisterElement, r.Count)
	for i, index := range indices {
		reg := r
		reg.Name = strings.ReplaceAll(r.Name, "[%s]", strings.TrimSpace(index))
		reg.Name = strings.ReplaceAll(reg.Name, "%s", strings.TrimSpace(index))
		reg.AddressOffset = r.AddressOffset + Integer(i)*r.Increment
		reg.Count = 0
		regs[i] = reg
	}
	return regs
}
