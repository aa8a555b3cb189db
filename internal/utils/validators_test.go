package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePhoneNumber(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "формат 8XXXXXXXXXX", input: "89261234567", want: "+79261234567"},
		{name: "формат 7XXXXXXXXXX", input: "79261234567", want: "+79261234567"},
		{name: "формат с плюсом и разделителями", input: "+7 (926) 123-45-67", want: "+79261234567"},
		{name: "десять цифр без префикса", input: "9261234567", want: "+79261234567"},
		{name: "слишком короткий", input: "123", wantErr: true},
		{name: "пустая строка", input: "", wantErr: true},
		{name: "одиннадцать цифр с чужим префиксом", input: "19261234567", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidatePhoneNumber(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseArriveDate(t *testing.T) {
	t.Run("дата без времени — начало дня", func(t *testing.T) {
		got, err := ParseArriveDate("2025-03-01")
		require.NoError(t, err)
		assert.Equal(t, 2025, got.Year())
		assert.Equal(t, time.March, got.Month())
		assert.Equal(t, 1, got.Day())
		assert.Equal(t, 0, got.Hour())
	})

	t.Run("дата с временем", func(t *testing.T) {
		got, err := ParseArriveDate("2025-03-01 10:30")
		require.NoError(t, err)
		assert.Equal(t, 10, got.Hour())
		assert.Equal(t, 30, got.Minute())
	})

	t.Run("RFC3339", func(t *testing.T) {
		got, err := ParseArriveDate("2025-03-01T10:30:00+03:00")
		require.NoError(t, err)
		assert.Equal(t, 10, got.Hour())
	})

	t.Run("мусор отклоняется", func(t *testing.T) {
		_, err := ParseArriveDate("01.03.2025")
		assert.Error(t, err)
		_, err = ParseArriveDate("")
		assert.Error(t, err)
	})
}
