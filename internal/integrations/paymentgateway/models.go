package paymentgateway

// Order заказ, созданный в платёжном шлюзе
// Amount в минимальных единицах валюты (пайсы)
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// createOrderRequest тело запроса на создание заказа
type createOrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

// ErrorResponse модель ошибки от платёжного шлюза
type ErrorResponse struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}
