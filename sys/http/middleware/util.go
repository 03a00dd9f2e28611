package middleware

import (
	"fmt"
	"net/http"
)

// Writes a JSON error payload in the shape the frontend expects
func emitErrorResponse(w http.ResponseWriter, status int, errorMsg, errorCode string) error {
	h := w.Header()
	h.Set("Content-Type", "application/json")
	h.Set("X-Content-Type-Options", "nosniff")

	w.WriteHeader(status)
	size, err := fmt.Fprintf(
		w,
		"{\n\t\"error\": {\n\t\t\"message\": \"%s\",\n\t\t\"code\": \"%s\"\n\t}\n}",
		errorMsg, errorCode,
	)
	if err != nil {
		return err
	}
	if size == 0 {
		return fmt.Errorf("error writing response body")
	}

	return nil
}
