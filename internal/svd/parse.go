package svd

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"math"
	"regexp"

	"github.com/retroenv/regmapgen/internal/model"
	"github.com/retroenv/retrogolib/log"
)

const (
	defaultRegisterBits = 32
	maxRegisterBits     = 64
)

var bitRangePattern = regexp.MustCompile(`^\[(\d+):(\d+)\]$`)

// Load reads and parses an SVD description.
func Load(reader io.Reader) (*Device, error) {
	var device Device
	if err := xml.NewDecoder(reader).Decode(&device); err != nil {
		return nil, fmt.Errorf("decoding SVD document: %w", err)
	}
	return &device, nil
}

// Normalize converts a parsed SVD device into validated peripheral maps.
// Registers are sorted by offset and all model invariants are checked,
// peripherals without registers are skipped. All validation errors of a
// peripheral are reported together.
func Normalize(logger *log.Logger, device *Device) ([]*model.PeripheralMap, error) {
	var peripherals []*model.PeripheralMap
	var errs model.ErrorList

	byName := make(map[string]*Peripheral, len(device.Peripherals))
	for _, peripheral := range device.Peripherals {
		byName[peripheral.Name] = peripheral
	}

	for _, peripheral := range device.Peripherals {
		registers := peripheral.Registers
		description := peripheral.Description

		// derived peripherals inherit the register block of their base
		if base, ok := byName[peripheral.DerivedFrom]; ok && len(registers) == 0 {
			registers = base.Registers
			if description == "" {
				description = base.Description
			}
		}

		if len(registers) == 0 {
			logger.Debug("Skipping peripheral without registers",
				log.String("peripheral", peripheral.Name))
			continue
		}

		defs, err := normalizeRegisters(peripheral.Name, registers, device)
		if err != nil {
			return nil, err
		}

		p, err := model.NewPeripheralMap(peripheral.Name, description,
			uint64(peripheral.BaseAddress), defs)
		if err != nil {
			var list model.ErrorList
			if errors.As(err, &list) {
				errs = append(errs, list...)
				continue
			}
			return nil, fmt.Errorf("building peripheral %s: %w", peripheral.Name, err)
		}
		peripherals = append(peripherals, p)
	}

	if err := errs.ErrOrNil(); err != nil {
		return nil, err
	}
	return peripherals, nil
}

func normalizeRegisters(peripheral string, registers []*Register,
	device *Device) ([]model.RegisterDef, error) {

	defs := make([]model.RegisterDef, 0, len(registers))
	for _, reg := range registers {
		def, err := normalizeRegister(peripheral, reg, device)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}

func normalizeRegister(peripheral string, reg *Register, device *Device) (model.RegisterDef, error) {
	// reject values that would wrap in the narrower model types before
	// model validation can see them
	if uint64(reg.AddressOffset) > math.MaxUint32 {
		return model.RegisterDef{}, fmt.Errorf("register %s.%s: address offset 0x%X exceeds the supported range",
			peripheral, reg.Name, uint64(reg.AddressOffset))
	}

	sizeBits := uint64(defaultRegisterBits)
	switch {
	case reg.Size != nil:
		sizeBits = uint64(*reg.Size)
	case device.Size != nil:
		sizeBits = uint64(*device.Size)
	}
	if sizeBits > maxRegisterBits {
		return model.RegisterDef{}, fmt.Errorf("register %s.%s: size of %d bits exceeds the supported range",
			peripheral, reg.Name, sizeBits)
	}

	accessString := reg.Access
	if accessString == "" {
		accessString = device.Access
	}
	access, ok := model.AccessFromString(accessString, reg.ModifiedWriteValues)
	if !ok {
		return model.RegisterDef{}, fmt.Errorf("register %s.%s: unsupported access %q",
			peripheral, reg.Name, accessString)
	}

	var resetValue uint64
	switch {
	case reg.ResetValue != nil:
		resetValue = uint64(*reg.ResetValue)
	case device.ResetValue != nil:
		resetValue = uint64(*device.ResetValue)
	}

	def := model.RegisterDef{
		Name:        reg.Name,
		Offset:      uint32(reg.AddressOffset),
		SizeBytes:   uint32((sizeBits + 7) / 8),
		ResetValue:  resetValue,
		Access:      access,
		Description: reg.Description,
		Fields:      make([]model.FieldDef, 0, len(reg.Fields)),
	}

	for _, field := range reg.Fields {
		offset, width, err := fieldBitRange(field)
		if err != nil {
			return model.RegisterDef{}, fmt.Errorf("register %s.%s: %w",
				peripheral, reg.Name, err)
		}
		if offset > math.MaxUint8 || width > math.MaxUint8 {
			return model.RegisterDef{}, fmt.Errorf("register %s.%s: field %s bit range %d+%d exceeds the supported range",
				peripheral, reg.Name, field.Name, offset, width)
		}
		def.Fields = append(def.Fields, model.FieldDef{
			Name:        field.Name,
			BitOffset:   uint8(offset),
			BitWidth:    uint8(width),
			Description: field.Description,
		})
	}
	return def, nil
}

// fieldBitRange resolves the three SVD bit range encodings:
// bitOffset/bitWidth, lsb/msb and the bitRange "[msb:lsb]" pattern.
func fieldBitRange(field *Field) (offset, width uint64, err error) {
	switch {
	case field.BitOffset != nil && field.BitWidth != nil:
		return uint64(*field.BitOffset), uint64(*field.BitWidth), nil

	case field.LSB != nil && field.MSB != nil:
		lsb, msb := uint64(*field.LSB), uint64(*field.MSB)
		if msb < lsb {
			return 0, 0, fmt.Errorf("field %s: msb %d below lsb %d", field.Name, msb, lsb)
		}
		return lsb, msb - lsb + 1, nil

	case field.BitRange != "":
		matches := bitRangePattern.FindStringSubmatch(field.BitRange)
		if matches == nil {
			return 0, 0, fmt.Errorf("field %s: malformed bit range %q", field.Name, field.BitRange)
		}
		msb, _ := ParseUint(matches[1])
		lsb, _ := ParseUint(matches[2])
		if msb < lsb {
			return 0, 0, fmt.Errorf("field %s: msb %d below lsb %d", field.Name, msb, lsb)
		}
		return lsb, msb - lsb + 1, nil

	default:
		return 0, 0, fmt.Errorf("field %s: no bit range given", field.Name)
	}
}
