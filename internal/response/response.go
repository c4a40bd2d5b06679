package response

import (
	"encoding/json"
	"net/http"
)

// Error is the wire form of an API error.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Response is the envelope every endpoint writes: exactly one of Data or
// Error is set.
type Response struct {
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

func JSON(w http.ResponseWriter, status int, data any) {
	write(w, status, Response{Data: data})
}

func ErrorJSON(w http.ResponseWriter, status int, message string) {
	write(w, status, Response{Error: &Error{Code: status, Message: message}})
}

func write(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}
