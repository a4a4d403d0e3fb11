package proxy

import (
	"encoding/json"
	"net/http"

	"halide-hq/prism/pkg/proxy/types"
)

// WriteJSONResponse writes a JSON response with the specified status code.
// It sets the Content-Type header and encodes the data as JSON.
//
// Example usage:
//
//	status := map[string]string{"status": "ok"}
//	if err := WriteJSONResponse(w, http.StatusOK, status); err != nil {
//	    log.Printf("failed to write response: %v", err)
//	}
func WriteJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	encoder := json.NewEncoder(w)
	return encoder.Encode(data)
}

// WriteErrorResponse writes an error response in the JSON envelope
// format. The HTTP status comes from the error response itself.
//
// Example usage:
//
//	errResp := HandleError(err)
//	if err := WriteErrorResponse(w, errResp); err != nil {
//	    log.Printf("failed to write error response: %v", err)
//	}
func WriteErrorResponse(w http.ResponseWriter, errResp *types.ErrorResponse) error {
	return WriteJSONResponse(w, errResp.HTTPStatus(), errResp)
}
