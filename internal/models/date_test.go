package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_JSON(t *testing.T) {
	kolkata := time.FixedZone("IST", 5*3600+1800)
	// 31 января 01:00 по Калькутте — это ещё 30 января в UTC
	d := NewDate(time.Date(2026, time.January, 31, 1, 0, 0, 0, kolkata))

	data, err := json.Marshal(struct {
		Day  Date  `json:"day"`
		Next *Date `json:"next,omitempty"`
	}{Day: d})
	require.NoError(t, err)
	assert.JSONEq(t, `{"day":"2026-01-31"}`, string(data))

	var got struct {
		Day Date `json:"day"`
	}
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "2026-01-31", got.Day.String())

	assert.Error(t, json.Unmarshal([]byte(`{"day":"2026-01-31T00:00:00Z"}`), &got))
}

func TestDate_ScanAndValue(t *testing.T) {
	tests := []struct {
		name string
		src  any
		want string
	}{
		{name: "driver time", src: time.Date(2026, time.February, 28, 0, 0, 0, 0, time.UTC), want: "2026-02-28"},
		{name: "text", src: "2024-02-29", want: "2024-02-29"},
		{name: "bytes", src: []byte("2026-12-01"), want: "2026-12-01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			require.NoError(t, d.Scan(tt.src))
			assert.Equal(t, tt.want, d.String())

			v, err := d.Value()
			require.NoError(t, err)
			assert.Equal(t, tt.want, v.(time.Time).Format("2006-01-02"))
		})
	}

	var d Date
	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())
	v, err := d.Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	assert.Error(t, d.Scan(42))
}
