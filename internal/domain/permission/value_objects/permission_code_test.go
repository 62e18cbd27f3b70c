package value_objects

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeCode(t *testing.T) {
	tests := []struct {
		name     string
		resource string
		action   string
		expected string
	}{
		{"lower case input", "patients", "read", "patients:read"},
		{"mixed case input", "Patients", "READ", "patients:read"},
		{"underscore resource", "lab_tests", "update", "lab_tests:update"},
		{"values outside vocabulary still encode", "x-ray", "Scan", "x-ray:scan"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, EncodeCode(tt.resource, tt.action))
		})
	}
}

func TestDecodeCode(t *testing.T) {
	t.Run("splits on first separator", func(t *testing.T) {
		resource, action, err := DecodeCode("reports:export:csv")
		require.NoError(t, err)
		assert.Equal(t, "reports", resource)
		assert.Equal(t, "export:csv", action)
	})

	t.Run("missing separator is malformed", func(t *testing.T) {
		_, _, err := DecodeCode("patientsread")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMalformedCode)
	})

	t.Run("empty string is malformed", func(t *testing.T) {
		_, _, err := DecodeCode("")
		assert.ErrorIs(t, err, ErrMalformedCode)
	})
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	inputs := [][2]string{
		{"patients", "read"},
		{"BILLING", "Export"},
		{"Audit_Logs", "approve"},
		{"wards", "VIEW"},
		{"custom", "thing"},
	}
	for _, r := range AllResources() {
		for _, a := range AllActions() {
			inputs = append(inputs, [2]string{string(r), string(a)})
		}
	}

	for _, in := range inputs {
		resource, action, err := DecodeCode(EncodeCode(in[0], in[1]))
		require.NoError(t, err, in)
		assert.Equal(t, strings.ToLower(in[0]), resource)
		assert.Equal(t, strings.ToLower(in[1]), action)
	}
}

func TestNewPair(t *testing.T) {
	tests := []struct {
		name     string
		resource string
		action   string
		wantErr  error
		wantCode string
	}{
		{"valid pair", "patients", "read", nil, "patients:read"},
		{"normalises case and space", " Billing ", "EXPORT", nil, "billing:export"},
		{"unknown resource", "spaceships", "read", ErrInvalidResource, ""},
		{"empty resource", "", "read", ErrInvalidResource, ""},
		{"unknown action", "patients", "launch", ErrInvalidAction, ""},
		{"empty action", "patients", "", ErrInvalidAction, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pair, err := NewPair(tt.resource, tt.action)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCode, pair.Code())
		})
	}
}

func TestParsePair(t *testing.T) {
	pair, err := ParsePair("Lab_Tests:Read")
	require.NoError(t, err)
	assert.Equal(t, ResourceLabTests, pair.Resource)
	assert.Equal(t, ActionRead, pair.Action)

	_, err = ParsePair("lab_tests")
	assert.ErrorIs(t, err, ErrMalformedCode)
}

func TestCrossProductAndDedupe(t *testing.T) {
	pairs := CrossProduct(
		[]Resource{ResourcePatients, ResourceBilling},
		[]Action{ActionRead, ActionList},
	)
	require.Len(t, pairs, 4)
	assert.Equal(t, "patients:read", pairs[0].Code())
	assert.Equal(t, "billing:list", pairs[3].Code())

	deduped := Dedupe(append(pairs, pairs[1], pairs[0]))
	assert.Equal(t, pairs, deduped)
}

func TestVocabularies(t *testing.T) {
	assert.Len(t, AllResources(), 25)
	assert.Len(t, AllActions(), 9)

	resources := AllResources()
	resources[0] = "mutated"
	assert.Equal(t, ResourcePatients, AllResources()[0], "AllResources must return a copy")
}
