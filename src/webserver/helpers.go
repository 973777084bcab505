package webserver

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
)

// userIDHeader is where the authentication layer in front of this server
// records the ID of the authenticated user. Authentication itself is not
// this server's business, it only trusts what the layer before it decided.
const userIDHeader = "X-User-ID"

// requestUserID returns the authenticated user of the request or an error
// when there is none.
func requestUserID(req *http.Request) (int64, error) {
	val := req.Header.Get(userIDHeader)
	if val == "" {
		return 0, fmt.Errorf("no authenticated user in the request")
	}

	id, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed %s header: %w", userIDHeader, err)
	}

	return id, nil
}

// writeJSON encodes the payload into the response alongside the status code.
func writeJSON(writer http.ResponseWriter, code int, payload interface{}) {
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(code)

	if err := json.NewEncoder(writer).Encode(payload); err != nil {
		log.Printf("error writing JSON response: %s\n", err)
	}
}
