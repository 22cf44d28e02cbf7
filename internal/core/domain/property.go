package domain

import (
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Статусы жизненного цикла объявления.
const (
	StatusAvailable = "Available"
	StatusRented    = "Rented"
)

// PlaceholderImage используется, если объявление создано без фотографий.
const PlaceholderImage = "/assets/placeholder-property.svg"

// Property - это главная сущность: одно объявление об аренде.
// ID назначается генератором ровно один раз при создании и больше не пересчитывается.
// Currency - чистая функция от Country, отдельно не редактируется.
type Property struct {
	ID          string   `json:"id"`
	Country     string   `json:"country"`
	City        string   `json:"city"`
	Area        string   `json:"area"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Type        string   `json:"type"`
	Bedrooms    int      `json:"bedrooms"`
	Bathrooms   float64  `json:"bathrooms"`
	Size        int      `json:"size"`
	Price       int      `json:"price"`
	Currency    string   `json:"currency"`
	PaymentType string   `json:"paymentType"`
	Status      string   `json:"status"`
	Amenities   []string `json:"amenities"`
	Images      []string `json:"images"`
	Featured    bool     `json:"featured"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PropertyDraft - то, что приходит от вызывающей стороны при создании.
// Системные поля (id, currency, timestamps) здесь сознательно отсутствуют.
type PropertyDraft struct {
	Country     string   `json:"country"`
	City        string   `json:"city"`
	Area        string   `json:"area"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Type        string   `json:"type"`
	Bedrooms    int      `json:"bedrooms"`
	Bathrooms   float64  `json:"bathrooms"`
	Size        int      `json:"size"`
	Price       int      `json:"price"`
	PaymentType string   `json:"paymentType"`
	Status      string   `json:"status"`
	Amenities   []string `json:"amenities"`
	Images      []string `json:"images"`
	Featured    bool     `json:"featured"`
}

var countryTitleCaser = cases.Title(language.English)

// CurrencyForCountry возвращает валюту для страны.
// Неизвестная страна получает KES - так делал исходный продукт.
func CurrencyForCountry(country string) string {
	switch country {
	case "Kenya":
		return "KES"
	case "Tanzania":
		return "TZS"
	case "Uganda":
		return "UGX"
	default:
		return "KES"
	}
}

// NewPropertyFromDraft превращает черновик в полноценную запись:
// заполняет дефолты, назначает id, валюту и временные метки.
// existingIDs нужны генератору идентификаторов, now - единая метка создания.
func NewPropertyFromDraft(draft PropertyDraft, existingIDs []string, now time.Time) Property {
	country := countryTitleCaser.String(draft.Country)

	images := draft.Images
	if len(images) == 0 {
		// Объявление без фотографий не должно существовать - подставляем заглушку
		images = []string{PlaceholderImage}
	}

	status := draft.Status
	if status == "" {
		status = StatusAvailable
	}

	return Property{
		ID:          GeneratePropertyID(country, existingIDs),
		Country:     country,
		City:        draft.City,
		Area:        draft.Area,
		Title:       draft.Title,
		Description: draft.Description,
		Type:        draft.Type,
		Bedrooms:    draft.Bedrooms,
		Bathrooms:   draft.Bathrooms,
		Size:        draft.Size,
		Price:       draft.Price,
		Currency:    CurrencyForCountry(country),
		PaymentType: draft.PaymentType,
		Status:      status,
		Amenities:   dedupeAmenities(draft.Amenities),
		Images:      images,
		Featured:    draft.Featured,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// dedupeAmenities схлопывает дубликаты, сохраняя порядок первого вхождения.
func dedupeAmenities(amenities []string) []string {
	if len(amenities) == 0 {
		return amenities
	}
	seen := make(map[string]struct{}, len(amenities))
	result := make([]string, 0, len(amenities))
	for _, a := range amenities {
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		result = append(result, a)
	}
	return result
}
