package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// countryCode возвращает двухбуквенный код страны для идентификатора.
func countryCode(country string) string {
	switch country {
	case "Kenya":
		return "KE"
	case "Tanzania":
		return "TZ"
	case "Uganda":
		return "UG"
	default:
		return "XX"
	}
}

// GeneratePropertyID строит человекочитаемый идентификатор вида KE-2025-001:
// код страны, текущий год и порядковый номер внутри этой пары.
//
// Функция детерминирована при фиксированном наборе existingIDs, но зависит от
// календарного года - на границе года нумерация начинается заново, и это
// ожидаемое поведение, а не ошибка.
func GeneratePropertyID(country string, existingIDs []string) string {
	prefix := fmt.Sprintf("%s-%d", countryCode(country), time.Now().Year())

	maxNumber := 0
	for _, id := range existingIDs {
		if !strings.HasPrefix(id, prefix+"-") {
			continue
		}
		parts := strings.Split(id, "-")
		if len(parts) < 3 {
			continue
		}
		num, err := strconv.Atoi(parts[2])
		if err != nil {
			continue
		}
		if num > maxNumber {
			maxNumber = num
		}
	}

	// Ширина 3 - это минимум, а не потолок: после 999 суффикс просто растет
	return fmt.Sprintf("%s-%03d", prefix, maxNumber+1)
}
