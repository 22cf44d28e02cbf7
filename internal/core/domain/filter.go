package domain

import (
	"sort"
	"strconv"
	"strings"
)

// BedroomsFourPlus - сентинел для фильтра по спальням: "4 и больше".
const BedroomsFourPlus = "4+"

// FilterCriteria - необязательные предикаты поиска. Пустое поле означает
// "без ограничения", заполненные объединяются через логическое И.
type FilterCriteria struct {
	Country      string   `json:"country"`
	City         string   `json:"city"`
	Area         string   `json:"area"`
	PropertyType string   `json:"propertyType"`
	MinPrice     *int     `json:"minPrice"`
	MaxPrice     *int     `json:"maxPrice"`
	Bedrooms     string   `json:"bedrooms"` // точное число или "4+"
	Amenities    []string `json:"amenities"`
	Status       string   `json:"status"`
	Featured     *bool    `json:"featured"`
}

// Filter применяет критерии к коллекции и возвращает результат,
// отсортированный по дате создания (новые первыми). Сортировка выполняется
// всегда, даже когда критериев нет вовсе. Чистая функция, без I/O.
func Filter(records []Property, criteria FilterCriteria) []Property {
	result := make([]Property, 0, len(records))
	for _, p := range records {
		if matches(p, criteria) {
			result = append(result, p)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return result
}

func matches(p Property, c FilterCriteria) bool {
	if c.Country != "" && p.Country != c.Country {
		return false
	}
	if c.City != "" && !containsFold(p.City, c.City) {
		return false
	}
	if c.Area != "" && !containsFold(p.Area, c.Area) {
		return false
	}
	if c.PropertyType != "" && p.Type != c.PropertyType {
		return false
	}
	if c.MinPrice != nil && p.Price < *c.MinPrice {
		return false
	}
	if c.MaxPrice != nil && p.Price > *c.MaxPrice {
		return false
	}
	if c.Bedrooms != "" && !matchesBedrooms(p.Bedrooms, c.Bedrooms) {
		return false
	}
	for _, amenity := range c.Amenities {
		if !containsString(p.Amenities, amenity) {
			return false
		}
	}
	if c.Status != "" && p.Status != c.Status {
		return false
	}
	if c.Featured != nil && p.Featured != *c.Featured {
		return false
	}
	return true
}

func matchesBedrooms(bedrooms int, want string) bool {
	if want == BedroomsFourPlus {
		return bedrooms >= 4
	}
	n, err := strconv.Atoi(want)
	if err != nil {
		// Нечисловое значение не совпадает ни с чем
		return false
	}
	return bedrooms == n
}

// containsFold - регистронезависимый поиск подстроки.
func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func containsString(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
