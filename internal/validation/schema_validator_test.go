package validation

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaValidator_QuantumResponse(t *testing.T) {
	v := NewSchemaValidator()

	tests := []struct {
		name      string
		data      string
		wantError bool
		errorMsg  string
	}{
		{
			name: "valid response",
			data: `{"numbers":[4,8,15,16,23,42],"source":"anu","timestamp":"2026-10-14T12:00:00Z","request_id":"r-1"}`,
		},
		{
			name: "optional fields omitted",
			data: `{"numbers":[7],"request_id":"r-2"}`,
		},
		{
			name:      "missing request id",
			data:      `{"numbers":[7]}`,
			wantError: true,
			errorMsg:  "required",
		},
		{
			name:      "fractional number",
			data:      `{"numbers":[7.5],"request_id":"r-3"}`,
			wantError: true,
			errorMsg:  "/numbers/0",
		},
		{
			name:      "empty numbers",
			data:      `{"numbers":[],"request_id":"r-4"}`,
			wantError: true,
			errorMsg:  "minItems",
		},
		{
			name:      "not json",
			data:      `<html>bad gateway</html>`,
			wantError: true,
			errorMsg:  "invalid JSON",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateBytes([]byte(tt.data), SchemaQuantumRandomResponse)
			if !tt.wantError {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrSchemaViolation)
			assert.Contains(t, err.Error(), tt.errorMsg)
		})
	}
}

func TestSchemaValidator_BlockchainSchemas(t *testing.T) {
	v := NewSchemaValidator()

	assert.NoError(t, v.ValidateBytes([]byte(`{"drawId":"d","verified":true,"blockNumber":12,"transactionHash":"0xabc"}`), SchemaBlockchainVerifyResponse))
	assert.ErrorIs(t, v.ValidateBytes([]byte(`{"verified":"yes","transactionHash":"0xabc"}`), SchemaBlockchainVerifyResponse), ErrSchemaViolation)
	assert.ErrorIs(t, v.ValidateBytes([]byte(`{"verified":true}`), SchemaBlockchainVerifyResponse), ErrSchemaViolation)

	assert.NoError(t, v.ValidateBytes([]byte(`{"hash":"0xabc","status":"pending"}`), SchemaBlockchainTransaction))
	assert.ErrorIs(t, v.ValidateBytes([]byte(`{"hash":"0xabc","blockNumber":-1,"status":"confirmed"}`), SchemaBlockchainTransaction), ErrSchemaViolation)
}

func TestSchemaValidator_UnknownSchema(t *testing.T) {
	v := NewSchemaValidator()

	err := v.ValidateBytes([]byte(`{}`), "missing.schema.json")

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSchemaViolation)
	assert.Contains(t, err.Error(), "failed to load schema")
}

func TestSchemaValidator_ConcurrentUse(t *testing.T) {
	v := NewSchemaValidator()
	data := []byte(`{"numbers":[1,2,3],"request_id":"r"}`)

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- v.ValidateBytes(data, SchemaQuantumRandomResponse)
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
}
