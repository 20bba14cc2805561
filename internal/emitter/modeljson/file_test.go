package modeljson

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/retroenv/regmapgen/internal/options"
	"github.com/retroenv/regmapgen/internal/program"
	"github.com/retroenv/retrogolib/assert"
)

func TestWrite(t *testing.T) {
	app := program.New("GPIOA", "GPIOA", "General purpose I/O", 0x40020000)
	app.Entries = []program.Entry{
		{Register: &program.Register{
			Name: "MODER", Ident: "MODER",
			Offset: 0, SizeBytes: 4, StorageBits: 32,
			Access: "RW", Accessor: "read-write",
			Fields: []program.Field{
				{
					Name: "MODER0", Ident: "MODER0",
					BitOffset: 0, BitWidth: 2,
					Accessor: "read-write",
					Mask:     0x3, Shift: 0, MaxValue: 3,
				},
			},
			ReservedBits: 30,
		}},
		{Gap: &program.Gap{StartOffset: 4, LengthBytes: 12}},
	}

	var buffer bytes.Buffer
	assert.NoError(t, New(app, options.NewGenerator(), &buffer).Write())

	var decoded program.Program
	assert.NoError(t, json.Unmarshal(buffer.Bytes(), &decoded))

	assert.Equal(t, "GPIOA", decoded.Peripheral)
	assert.Equal(t, uint64(0x40020000), decoded.BaseAddress)
	assert.Len(t, decoded.Entries, 2)
	assert.Equal(t, "MODER", decoded.Entries[0].Register.Name)
	assert.Equal(t, uint64(0x3), decoded.Entries[0].Register.Fields[0].Mask)
	assert.True(t, decoded.Entries[1].IsGap())
	assert.Equal(t, uint32(12), decoded.Entries[1].Gap.LengthBytes)

	// indented output
	assert.Contains(t, buffer.String(), "  \"peripheral\": \"GPIOA\"")
}
