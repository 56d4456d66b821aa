package provider

import (
	"encoding/json"
	"fmt"
	"io"
)

// browserUserAgent is sent to endpoints that reject default Go clients.
const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

func decodeJSON(r io.Reader, dest interface{}) error {
	body, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("decode JSON response: %w", err)
	}
	return nil
}
