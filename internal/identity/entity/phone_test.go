package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr error
	}{
		{name: "national", in: "09123456789", want: "+989123456789"},
		{name: "without trunk prefix", in: "9123456789", want: "+989123456789"},
		{name: "international zeros", in: "00989123456789", want: "+989123456789"},
		{name: "country code only", in: "989123456789", want: "+989123456789"},
		{name: "e164", in: "+989123456789", want: "+989123456789"},
		{name: "separators", in: " 0912 345-67(89) ", want: "+989123456789"},
		{name: "persian digits", in: "۰۹۱۲۳۴۵۶۷۸۹", want: "+989123456789"},
		{name: "foreign e164", in: "+447911123456", want: "+447911123456"},
		{name: "iran landline", in: "02112345678", wantErr: ErrInvalidPhone},
		{name: "too short", in: "0912345", wantErr: ErrInvalidPhone},
		{name: "letters", in: "0912abc6789", wantErr: ErrInvalidPhone},
		{name: "plus in middle", in: "09+123456789", wantErr: ErrInvalidPhone},
		{name: "empty", in: "", wantErr: ErrInvalidPhone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizePhone(tt.in)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.want, got)
		})
	}
}
