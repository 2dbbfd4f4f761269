package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		date    string
		want    string
		wantErr bool
	}{
		{name: "valid date", date: "2024-05-10", want: "2024-05"},
		{name: "leap day", date: "2024-02-29", want: "2024-02"},
		{name: "non leap feb 29", date: "2023-02-29", wantErr: true},
		{name: "month out of range", date: "2024-13-01", wantErr: true},
		{name: "wrong layout", date: "10/05/2024", wantErr: true},
		{name: "empty", date: "", wantErr: true},
		{name: "garbage", date: "not-a-date", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := MonthID(tt.date)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPriceBookPrice(t *testing.T) {
	t.Parallel()

	book := PriceBook{"2024-05": {"F1": 150}}

	assert.Equal(t, 150.0, book.Price("2024-05", "F1"))
	assert.Zero(t, book.Price("2024-05", "F2"))
	assert.Zero(t, book.Price("2024-06", "F1"))
	assert.Zero(t, PriceBook(nil).Price("2024-05", "F1"))
}
