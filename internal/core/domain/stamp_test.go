package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/devpipe/internal/core/domain"
)

func TestStampFromVersion(t *testing.T) {
	tests := []struct {
		version string
		want    domain.Stamp
		wantErr bool
	}{
		{version: "", want: 0},
		{version: "dev", want: 0},
		{version: "v0.3.0", want: 0x00030000},
		{version: "1.2.3", want: 0x01020300},
		{version: "v1.2.3-rc.1", want: 0x01020300},
		{version: "v2", want: 0x02000000},
		{version: "v256.0.0", wantErr: true},
		{version: "banana", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			got, err := domain.StampFromVersion(tt.version)
			if tt.wantErr {
				require.ErrorIs(t, err, domain.ErrInvalidVersion)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStamp_String(t *testing.T) {
	assert.Equal(t, "00", domain.Stamp(0).String())
	assert.Equal(t, "30000", domain.NewStamp(0, 3, 0).String())
	assert.Equal(t, "1020300", domain.NewStamp(1, 2, 3).String())
}

func TestParseStamp(t *testing.T) {
	s, err := domain.ParseStamp("1020300")
	require.NoError(t, err)
	assert.Equal(t, domain.NewStamp(1, 2, 3), s)

	_, err = domain.ParseStamp("xyz")
	require.ErrorIs(t, err, domain.ErrInvalidVersion)
}
