package hubnetprotocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionResponseAcceptsNumericFields(t *testing.T) {
	body := `{"status":true,"data":{"status":"Delivered","processed_date":"2024-05-01 10:00","volume":1024,"number":"0551234567","response_code":200,"message":"ok"}}`

	var res TransactionResponse
	require.NoError(t, json.Unmarshal([]byte(body), &res))

	assert.True(t, res.Status)
	assert.Equal(t, FlexString("1024"), res.Data.Volume)
	assert.Equal(t, FlexString("200"), res.Data.ResponseCode)
	assert.Equal(t, FlexString("0551234567"), res.Data.Number)
}

func TestTransactionResponseNullFields(t *testing.T) {
	body := `{"status":false,"message":"not found","data":{"volume":null}}`

	var res TransactionResponse
	require.NoError(t, json.Unmarshal([]byte(body), &res))

	assert.False(t, res.Status)
	assert.Equal(t, FlexString(""), res.Data.Volume)
}
