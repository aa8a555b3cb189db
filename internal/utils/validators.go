package utils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var nonDigitRegex = regexp.MustCompile(`[^\d]`)

// ValidatePhoneNumber проверяет и нормализует номер телефона.
// Возвращает номер в формате +7XXXXXXXXXX или ошибку.
func ValidatePhoneNumber(phone string) (string, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return "", fmt.Errorf("номер телефона пуст")
	}

	digitsOnly := nonDigitRegex.ReplaceAllString(phone, "")

	switch {
	case len(digitsOnly) == 11 && (digitsOnly[0] == '7' || digitsOnly[0] == '8'):
		return "+7" + digitsOnly[1:], nil
	case len(digitsOnly) == 10:
		return "+7" + digitsOnly, nil
	}

	return "", fmt.Errorf("неверный формат номера телефона, укажите в формате +7XXXXXXXXXX или 8XXXXXXXXXX")
}

// arriveDateLayouts — поддерживаемые форматы даты прибытия, от более
// точного к менее точному.
var arriveDateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseArriveDate парсит строку с датой прибытия мастера.
// Дата без времени трактуется как начало дня в локальной зоне.
func ParseArriveDate(dateStr string) (time.Time, error) {
	dateStr = strings.TrimSpace(dateStr)
	if dateStr == "" {
		return time.Time{}, fmt.Errorf("строка даты пуста")
	}

	for _, layout := range arriveDateLayouts {
		if parsed, err := time.ParseInLocation(layout, dateStr, time.Local); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("некорректный формат даты: '%s'", dateStr)
}
