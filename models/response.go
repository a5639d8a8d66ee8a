package models

type ListResponse[T any] struct {
	Data []T `json:"data"`
}

type StudentResponse struct {
	Data         StudentRecord `json:"data"`
	DisplayHints DisplayHints  `json:"displayHints"`
}

type ErrorResponse struct {
	Error                string `json:"error"`
	Status               string `json:"status,omitempty"`
	RequiresConfirmation bool   `json:"requiresConfirmation,omitempty"`
}
