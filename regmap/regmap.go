// Package regmap loads YAML device descriptions into runtime register
// values. A map file names a device, its bus address and its registers —
// id, identifier width, payload size, access mode and optional per-direction
// id overrides — and each entry yields a Raw register usable with the i2c
// and spi transaction functions. Maps are user data: the library ships no
// register maps of its own.
//
// A map file looks like this:
//
//	device: shtc3
//	address: 0x70
//	registers:
//	  - name: id
//	    id: 0xEFC8
//	    width: 16
//	    size: 2
//	    access: ro
//	  - name: config
//	    id: 0x05
//	    width: 8
//	    size: 1
//	    access: rw
//	    read_id: 0x45
package regmap

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mklimuk/registers"
)

// Access is a register's access mode.
type Access string

const (
	ReadOnly  Access = "ro"
	ReadWrite Access = "rw"
	WriteOnly Access = "wo"
)

// Device is one loaded map file.
type Device struct {
	Name      string   `yaml:"device"`
	Address   uint16   `yaml:"address"`
	Registers []*Entry `yaml:"registers"`

	byName map[string]*Entry
}

// Entry describes one register of the device. Identifier values are kept as
// YAML scalars and parsed against the declared width during Load, so hex,
// decimal and 128-bit identifiers all work.
type Entry struct {
	Name    string `yaml:"name"`
	ID      string `yaml:"id"`
	Width   int    `yaml:"width"`
	Size    int    `yaml:"size"`
	Access  Access `yaml:"access"`
	ReadID  string `yaml:"read_id"`
	WriteID string `yaml:"write_id"`

	id      registers.ID
	readID  registers.ID
	writeID registers.ID
}

// Load parses and validates a map file.
func Load(r io.Reader) (*Device, error) {
	var dev Device
	if err := yaml.NewDecoder(r).Decode(&dev); err != nil {
		return nil, fmt.Errorf("could not parse register map: %w", err)
	}
	if dev.Name == "" {
		return nil, fmt.Errorf("register map has no device name")
	}
	dev.byName = make(map[string]*Entry, len(dev.Registers))
	for _, entry := range dev.Registers {
		if err := entry.validate(); err != nil {
			return nil, fmt.Errorf("register %q: %w", entry.Name, err)
		}
		if _, exists := dev.byName[entry.Name]; exists {
			return nil, fmt.Errorf("duplicate register name %q", entry.Name)
		}
		dev.byName[entry.Name] = entry
	}
	return &dev, nil
}

// LoadFile reads and parses the map file at path.
func LoadFile(path string) (*Device, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open register map: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Load(f)
}

// Lookup returns the entry named name.
func (d *Device) Lookup(name string) (*Entry, bool) {
	e, ok := d.byName[name]
	return e, ok
}

func (e *Entry) validate() error {
	if e.Name == "" {
		return fmt.Errorf("missing name")
	}
	if e.Size < 0 {
		return fmt.Errorf("negative payload size %d", e.Size)
	}
	switch e.Access {
	case "":
		e.Access = ReadWrite
	case ReadOnly, ReadWrite, WriteOnly:
	default:
		return fmt.Errorf("unknown access mode %q", e.Access)
	}
	var err error
	if e.id, err = ParseID(e.ID, e.Width); err != nil {
		return err
	}
	e.readID, e.writeID = e.id, e.id
	if e.ReadID != "" {
		if e.readID, err = ParseID(e.ReadID, e.Width); err != nil {
			return fmt.Errorf("read_id: %w", err)
		}
	}
	if e.WriteID != "" {
		if e.writeID, err = ParseID(e.WriteID, e.Width); err != nil {
			return fmt.Errorf("write_id: %w", err)
		}
	}
	return nil
}

// Register returns a fresh Raw register for the entry, ignoring the access
// mode. Use Readable and Writable when the access mode should be enforced.
func (e *Entry) Register() *Raw {
	return NewRaw(e.id, e.Size, WithReadID(e.readID), WithWriteID(e.writeID))
}

// Readable returns a Raw register for a read of the entry.
func (e *Entry) Readable() (*Raw, error) {
	if e.Access == WriteOnly {
		return nil, fmt.Errorf("register %q is write-only", e.Name)
	}
	return e.Register(), nil
}

// Writable returns a Raw register for a write of the entry.
func (e *Entry) Writable() (*Raw, error) {
	if e.Access == ReadOnly {
		return nil, fmt.Errorf("register %q is read-only", e.Name)
	}
	return e.Register(), nil
}

// ParseID parses an identifier scalar against a declared width in bits.
// Values follow Go literal syntax for widths up to 64 bits; 128-bit values
// are hexadecimal strings of up to 32 digits.
func ParseID(value string, widthBits int) (registers.ID, error) {
	if value == "" {
		return nil, fmt.Errorf("missing id")
	}
	if widthBits == 128 {
		return parseID128(value)
	}
	v, err := strconv.ParseUint(value, 0, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid id %q: %w", value, err)
	}
	switch widthBits {
	case 8:
		if v > 0xFF {
			return nil, fmt.Errorf("id %q does not fit in 8 bits", value)
		}
		return registers.ID8(v), nil
	case 16:
		if v > 0xFFFF {
			return nil, fmt.Errorf("id %q does not fit in 16 bits", value)
		}
		return registers.ID16(v), nil
	case 32:
		if v > 0xFFFFFFFF {
			return nil, fmt.Errorf("id %q does not fit in 32 bits", value)
		}
		return registers.ID32(v), nil
	case 64:
		return registers.ID64(v), nil
	}
	return nil, fmt.Errorf("unknown identifier width %d", widthBits)
}

func parseID128(value string) (registers.ID, error) {
	digits := strings.TrimPrefix(strings.TrimPrefix(value, "0x"), "0X")
	if len(digits) == 0 || len(digits) > 32 {
		return nil, fmt.Errorf("invalid 128-bit id %q", value)
	}
	digits = strings.Repeat("0", 32-len(digits)) + digits
	raw, err := hex.DecodeString(digits)
	if err != nil {
		return nil, fmt.Errorf("invalid 128-bit id %q: %w", value, err)
	}
	return registers.ID128{
		Hi: binary.BigEndian.Uint64(raw[0:8]),
		Lo: binary.BigEndian.Uint64(raw[8:16]),
	}, nil
}
