// Package svd reads SVD-style hardware descriptions and normalizes them
// into validated peripheral maps.
package svd

import (
	"encoding/xml"
	"strconv"
	"strings"
)

// Uint parses SVD integer literals which can be decimal, 0x hex or 0b
// binary.
type Uint uint64

// UnmarshalXML implements xml.Unmarshaler.
func (u *Uint) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var s string
	if err := d.DecodeElement(&s, &start); err != nil {
		return err
	}
	v, err := ParseUint(s)
	*u = Uint(v)
	return err
}

// ParseUint parses an SVD integer literal.
func ParseUint(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.ParseUint(s, 0, 64)
}

// Device is the root element of an SVD description.
type Device struct {
	Name        string        `xml:"name"`
	Description string        `xml:"description"`
	Width       *Uint         `xml:"width"`
	Size        *Uint         `xml:"size"`
	Access      string        `xml:"access"`
	ResetValue  *Uint         `xml:"resetValue"`
	Peripherals []*Peripheral `xml:"peripherals>peripheral"`
}

// Peripheral describes one memory-mapped peripheral.
type Peripheral struct {
	DerivedFrom string      `xml:"derivedFrom,attr"`
	Name        string      `xml:"name"`
	Description string      `xml:"description"`
	BaseAddress Uint        `xml:"baseAddress"`
	Registers   []*Register `xml:"registers>register"`
}

// Register describes one register of a peripheral.
type Register struct {
	Name                string   `xml:"name"`
	Description         string   `xml:"description"`
	AddressOffset       Uint     `xml:"addressOffset"`
	Size                *Uint    `xml:"size"`
	Access              string   `xml:"access"`
	ModifiedWriteValues string   `xml:"modifiedWriteValues"`
	ResetValue          *Uint    `xml:"resetValue"`
	Fields              []*Field `xml:"fields>field"`
}

// Field describes one bit field of a register. The bit range can be given
// as bitOffset/bitWidth, as lsb/msb or as a bitRange pattern like [7:0].
type Field struct {
	Name                string `xml:"name"`
	Description         string `xml:"description"`
	BitOffset           *Uint  `xml:"bitOffset"`
	BitWidth            *Uint  `xml:"bitWidth"`
	LSB                 *Uint  `xml:"lsb"`
	MSB                 *Uint  `xml:"msb"`
	BitRange            string `xml:"bitRange"`
	Access              string `xml:"access"`
	ModifiedWriteValues string `xml:"modifiedWriteValues"`
}
