package utils

import (
	"encoding/json"
	"net/http"
)

// Response is the JSON envelope every handler writes.
type Response struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Errors  any    `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(resp)
}

func ResponseSuccess(w http.ResponseWriter, message string, data any) {
	writeJSON(w, http.StatusOK, Response{Status: true, Message: message, Data: data})
}

func ResponseCreated(w http.ResponseWriter, message string, data any) {
	writeJSON(w, http.StatusCreated, Response{Status: true, Message: message, Data: data})
}

func ResponseBadRequest(w http.ResponseWriter, message string, errors any) {
	writeJSON(w, http.StatusBadRequest, Response{Status: false, Message: message, Errors: errors})
}

func ResponseUnauthorized(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusUnauthorized, Response{Status: false, Message: message})
}

func ResponseForbidden(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusForbidden, Response{Status: false, Message: message})
}

func ResponseNotFound(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusNotFound, Response{Status: false, Message: message})
}

func ResponseInternalError(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusInternalServerError, Response{Status: false, Message: message})
}
