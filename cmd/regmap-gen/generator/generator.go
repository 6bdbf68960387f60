// Package generator renders register offset and bit-field constants for the
// peripherals of an SVD device description.
package generator

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"golang.org/x/tools/imports"

	"omibyte.io/kinetis/cmd/regmap-gen/svd"
)

var ErrNoPeripherals = errors.New("no matching peripherals")

type Options struct {
	// Package is the name of the generated package.
	Package string
	// Source names the input in the generated file header.
	Source string
	// Peripherals restricts output to these peripheral or group names. All
	// peripherals are generated when it is empty.
	Peripherals []string
}

// block is one register layout shared by every instance in a group.
type block struct {
	name        string
	description string
	instances   []svd.PeripheralElement
}

type register struct {
	name   string
	offset uint64
	size   uint64
	access svd.Access
	desc   string
	fields []svd.FieldElement
}

// Generate returns one formatted Go file per peripheral group, keyed by file
// name.
func Generate(device svd.DeviceElement, options Options) (map[string][]byte, error) {
	blocks := map[string]*block{}
	for _, p := range device.Peripherals.Elements {
		name := groupName(p)
		if !selected(options.Peripherals, p.Name, name) {
			continue
		}
		b, ok := blocks[name]
		if !ok {
			b = &block{name: name, description: oneLine(p.Description)}
			blocks[name] = b
		}
		b.instances = append(b.instances, p)
	}
	if len(blocks) == 0 {
		return nil, ErrNoPeripherals
	}

	files := map[string][]byte{}
	names := maps.Keys(blocks)
	slices.Sort(names)
	for _, name := range names {
		filename := strings.ToLower(name) + "_regs.go"
		src, err := render(device, blocks[name], options)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}

		// Format the output
		out, err := imports.Process(filename, src, nil)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
		files[filename] = out
	}
	return files, nil
}

func render(device svd.DeviceElement, b *block, options Options) ([]byte, error) {
	regs, err := layout(device, b.instances[0])
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "// Code generated by regmap-gen from %s. DO NOT EDIT.\n\n", options.Source)
	fmt.Fprintf(&buf, "package %s\n\n", options.Package)

	fmt.Fprintf(&buf, "// %s", b.name)
	if len(b.description) > 0 {
		fmt.Fprintf(&buf, ": %s", b.description)
	}
	buf.WriteString("\n//\n")
	for _, p := range b.instances {
		fmt.Fprintf(&buf, "// %s at 0x%08X", p.Name, uint64(p.BaseAddress))
		for _, irq := range p.Interrupts {
			fmt.Fprintf(&buf, ", %s IRQ %d", irq.Name, uint64(irq.Value))
		}
		buf.WriteString("\n")
	}

	fmt.Fprintf(&buf, "const (\n")
	var end uint64
	for _, r := range regs {
		fmt.Fprintf(&buf, "%s_%s = 0x%02X // (%s)", b.name, r.name, r.offset, r.access.Short())
		if len(r.desc) > 0 {
			fmt.Fprintf(&buf, " %s", r.desc)
		}
		buf.WriteString("\n")
		if e := r.offset + r.size/8; e > end {
			end = e
		}
	}
	fmt.Fprintf(&buf, "\n%s_SIZE = 0x%02X\n)\n", b.name, end)

	seen := map[string]bool{}
	for _, r := range regs {
		if len(r.fields) == 0 {
			continue
		}
		fields := slices.Clone(r.fields)
		slices.SortStableFunc(fields, func(a, b svd.FieldElement) bool {
			ao, _, _ := a.Bits()
			bo, _, _ := b.Bits()
			return ao > bo
		})

		fmt.Fprintf(&buf, "\n// %s_%s fields\nconst (\n", b.name, r.name)
		for _, f := range fields {
			offset, width, err := f.Bits()
			if err != nil {
				return nil, err
			}
			id := fmt.Sprintf("%s_%s_%s", b.name, r.name, identifier(f.Name))
			if seen[id] {
				return nil, fmt.Errorf("duplicate field %s", id)
			}
			seen[id] = true

			if width == 1 {
				fmt.Fprintf(&buf, "%s = 1 << %d\n", id, offset)
				continue
			}
			fmt.Fprintf(&buf, "%s_Pos = %d\n", id, offset)
			fmt.Fprintf(&buf, "%s_Msk = 0x%X\n", id, uint64(1)<<width-1)
		}
		buf.WriteString(")\n")
	}
	return buf.Bytes(), nil
}

// layout expands register arrays, resolves default sizes and access modes
// and orders the registers by offset.
func layout(device svd.DeviceElement, p svd.PeripheralElement) ([]register, error) {
	var regs []register
	names := map[string]bool{}
	for _, elem := range p.Registers.RegisterElements {
		for _, r := range elem.Expand() {
			name := identifier(strings.TrimPrefix(r.Name, p.Prepend))
			if names[name] {
				return nil, fmt.Errorf("duplicate register %s", name)
			}
			names[name] = true

			size := uint64(r.Size)
			if size == 0 {
				size = uint64(p.RegisterSize)
			}
			if size == 0 {
				size = uint64(device.RegisterSize)
			}
			if size == 0 {
				size = 32
			}

			access := r.Access
			if len(access) == 0 {
				access = p.Access
			}
			if len(access) == 0 {
				access = device.DefaultAccess
			}

			regs = append(regs, register{
				name:   name,
				offset: uint64(r.AddressOffset),
				size:   size,
				access: access,
				desc:   oneLine(r.Description),
				fields: r.Fields.Elements,
			})
		}
	}

	slices.SortStableFunc(regs, func(a, b register) bool {
		return a.offset < b.offset
	})
	return regs, nil
}

// groupName is the constant prefix shared by every instance of a
// peripheral: its SVD group, or its name without the instance number.
func groupName(p svd.PeripheralElement) string {
	if len(p.Group) > 0 {
		return identifier(p.Group)
	}
	return identifier(strings.TrimRightFunc(p.Name, unicode.IsDigit))
}

func selected(filter []string, names ...string) bool {
	if len(filter) == 0 {
		return true
	}
	for _, name := range names {
		if slices.IndexFunc(filter, func(s string) bool {
			return strings.EqualFold(s, name)
		}) >= 0 {
			return true
		}
	}
	return false
}

func identifier(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			return unicode.ToUpper(r)
		}
		return '_'
	}, strings.TrimSpace(s))
	if len(s) > 0 && unicode.IsDigit(rune(s[0])) {
		s = "_" + s
	}
	return s
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
