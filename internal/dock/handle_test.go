package dock

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveHandle(t *testing.T) {
	tests := []struct {
		name    string
		buf     []byte
		err     error
		want    string
		wantErr error
	}{
		{
			name: "64-bit",
			buf:  []byte{0x34, 0x12, 0x0c, 0x00, 0x00, 0x00, 0x00, 0x00},
			want: "791092",
		},
		{
			name: "64-bit high bits",
			buf:  []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff},
			want: "18446744073709551615",
		},
		{
			name: "32-bit",
			buf:  []byte{0x78, 0x56, 0x34, 0x12},
			want: "305419896",
		},
		{
			name:    "odd length",
			buf:     []byte{1, 2},
			wantErr: ErrHandleEncoding,
		},
		{
			name:    "empty",
			buf:     nil,
			wantErr: ErrHandleEncoding,
		},
		{
			name:    "window error",
			err:     errNativeGone,
			wantErr: errNativeGone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveHandle(&fakeWindow{handle: tt.buf, err: tt.err})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

var errNativeGone = errors.New("window destroyed")

func TestResolveHandleNilWindow(t *testing.T) {
	_, err := ResolveHandle(nil)
	assert.ErrorIs(t, err, ErrNoWindow)
}
