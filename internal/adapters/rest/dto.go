package rest

// AddPropertyResponse - ответ на создание объявления
type AddPropertyResponse struct {
	ID string `json:"id"`
}

// StatusResponse - общий ответ для операций без тела
type StatusResponse struct {
	Status string `json:"status"`
}
