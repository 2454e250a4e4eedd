package redpacket

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{in: "1", want: 100},
		{in: "1.5", want: 150},
		{in: "0.01", want: 1},
		{in: " 12.34 ", want: 1234},
		{in: "+2.00", want: 200},
		{in: "92233720368547758.07", want: 9223372036854775807},
		{in: "92233720368547758.08", wantErr: true},
		{in: "", wantErr: true},
		{in: "0", wantErr: true},
		{in: "0.00", wantErr: true},
		{in: "-1", wantErr: true},
		{in: "1.234", wantErr: true},
		{in: "1.", wantErr: true},
		{in: "1.2.3", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "1.-5", wantErr: true},
		{in: "++5", wantErr: true},
		{in: "+-5", wantErr: true},
		{in: "-+5", wantErr: true},
		{in: "+5.+1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := ParseAmount(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestFormatAmount(t *testing.T) {
	t.Parallel()

	require.Equal(t, "0.00", FormatAmount(0))
	require.Equal(t, "0.05", FormatAmount(5))
	require.Equal(t, "12.34", FormatAmount(1234))
	require.Equal(t, "-1.50", FormatAmount(-150))
}
