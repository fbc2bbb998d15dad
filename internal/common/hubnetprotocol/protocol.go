package hubnetprotocol

import (
	"bytes"
	"encoding/json"
	"strings"
)

// FlexString accepts a JSON string, number or null.
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err //nolint:wrapcheck // unnecessary
		}
		*f = FlexString(s)
		return nil
	}
	*f = FlexString(strings.Trim(string(b), `"`))
	return nil
}

type Transaction struct {
	Status        string     `json:"status"`
	ProcessedDate string     `json:"processed_date"`
	Volume        FlexString `json:"volume"`
	Number        FlexString `json:"number"`
	ResponseCode  FlexString `json:"response_code"`
	Message       string     `json:"message"`
}

type TransactionResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    Transaction `json:"data"`
}
