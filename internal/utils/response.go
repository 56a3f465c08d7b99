package utils

import "net/http"

// Response is the envelope of every JSON response. Data is always present and
// encodes as null when empty.
type Response struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// ErrorBody is the data of a failed response that carries a machine-readable code,
// e.g. "DuplicatePayment".
type ErrorBody struct {
	Code string `json:"code"`
}

func NewResponse(status int, message string, data interface{}) Response {
	return Response{Status: status, Message: message, Data: data}
}

// NewSuccessResponse is a 200 response.
func NewSuccessResponse(message string, data interface{}) Response {
	return NewResponse(http.StatusOK, message, data)
}

func NewErrorResponse(status int, message string) Response {
	return NewResponse(status, message, nil)
}

// NewCodedErrorResponse is an error response whose data names the failure.
func NewCodedErrorResponse(status int, code, message string) Response {
	return NewResponse(status, message, ErrorBody{Code: code})
}
