package core

import (
	"encoding/json"
	"net/http"
)

// JSONResponse is the standard JSON response structure.
type JSONResponse struct {
	Code    string       `json:"code,omitempty"`
	Message string       `json:"message,omitempty"`
	Data    any          `json:"data,omitempty"`
	Error   *ErrorDetail `json:"error,omitempty"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

type jsonResponse struct {
	status int
	body   JSONResponse
}

func (j jsonResponse) Render(w http.ResponseWriter, r *http.Request) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(j.status)
	return json.NewEncoder(w).Encode(j.body)
}

// JSON creates a 200 JSON response.
func JSON(code string, data any) Response {
	return jsonResponse{
		status: http.StatusOK,
		body: JSONResponse{
			Code: code,
			Data: data,
		},
	}
}

// JSONWithStatus creates a JSON response with an explicit status code.
func JSONWithStatus(status int, code string, data any) Response {
	return jsonResponse{
		status: status,
		body: JSONResponse{
			Code: code,
			Data: data,
		},
	}
}

// JSONError creates a JSON error response. HTTPError values keep their status
// code; everything else renders as an internal error without leaking the
// underlying message.
func JSONError(err error) Response {
	status := http.StatusInternalServerError
	detail := &ErrorDetail{
		Code:    "internal_error",
		Message: http.StatusText(status),
	}

	if httpErr, ok := err.(HTTPError); ok {
		status = httpErr.Code
		detail.Code = httpErr.Key
		detail.Message = http.StatusText(httpErr.Code)
	}

	return jsonResponse{
		status: status,
		body: JSONResponse{
			Code:  detail.Code,
			Error: detail,
		},
	}
}
