package encoding_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/ecokpi/internal/encoding"
)

func TestNewUTF8Reader(t *testing.T) {
	const header = "sede_id;tipo;año;consumo_kwh\n"

	type args struct {
		input []byte
	}

	type testCase struct {
		name        string
		args        args
		want        string
		wantCharset []encoding.Charset
	}

	tests := []testCase{
		{
			name:        "UTF8Passthrough",
			args:        args{input: []byte(header + "x;Energía;2025;1.200,50\n")},
			want:        header + "x;Energía;2025;1.200,50\n",
			wantCharset: []encoding.Charset{encoding.UTF8},
		},
		{
			name:        "UTF8BOMStripped",
			args:        args{input: append([]byte{0xEF, 0xBB, 0xBF}, header...)},
			want:        header,
			wantCharset: []encoding.Charset{encoding.UTF8},
		},
		{
			// "año" and "Energía" as written by Excel on a Spanish locale.
			name: "Windows1252",
			args: args{input: []byte{
				'a', 0xF1, 'o', ';', 'E', 'n', 'e', 'r', 'g', 0xED, 'a', '\n',
			}},
			want:        "año;Energía\n",
			wantCharset: []encoding.Charset{encoding.Windows1252, encoding.ISO88599},
		},
		{
			name:        "UTF16LE",
			args:        args{input: []byte{0xFF, 0xFE, 'a', 0x00, 0xF1, 0x00, 'o', 0x00}},
			want:        "año",
			wantCharset: []encoding.Charset{encoding.UTF16LE},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, charset, err := encoding.NewUTF8Reader(bytes.NewReader(tt.args.input))
			require.NoError(t, err)
			assert.Contains(t, tt.wantCharset, charset)

			got, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestNewUTF8Reader_RuneAcrossSniffWindow(t *testing.T) {
	// Place a two-byte rune so it straddles the 4096-byte peek boundary.
	input := strings.Repeat("a", 4095) + "ñ"

	r, charset, err := encoding.NewUTF8Reader(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, encoding.UTF8, charset)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, input, string(got))
}
