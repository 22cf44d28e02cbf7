package domain

// CountryStatistics - сводка по одной стране. Никогда не персистится,
// всегда пересчитывается по живой коллекции.
type CountryStatistics struct {
	Total      int `json:"total"`
	Available  int `json:"available"`
	Rented     int `json:"rented"`
	Featured   int `json:"featured"`
	TotalValue int `json:"totalValue"`
}

// CountryStats считает сводку по странам за один проход.
// "Rented" здесь - это любой статус кроме Available: полной таксономии
// статусов у продукта нет, и это сознательное упрощение.
func CountryStats(records []Property) map[string]CountryStatistics {
	stats := make(map[string]CountryStatistics)
	for _, p := range records {
		s := stats[p.Country]
		s.Total++
		s.TotalValue += p.Price
		if p.Status == StatusAvailable {
			s.Available++
		} else {
			s.Rented++
		}
		if p.Featured {
			s.Featured++
		}
		stats[p.Country] = s
	}
	return stats
}
