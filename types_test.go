package jirafeau_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/sagarc03/jirafeau"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "success", jirafeau.StatusSuccess.String())
	assert.Equal(t, "not_found", jirafeau.StatusNotFound.String())
	assert.Equal(t, "error", jirafeau.StatusError.String())
	assert.Equal(t, "error", jirafeau.Status(42).String())
}

func TestStatus_ZeroValueIsError(t *testing.T) {
	var outcome jirafeau.DownloadOutcome
	assert.Equal(t, jirafeau.StatusError, outcome.Status)
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		input    string
		expected jirafeau.Status
		wantErr  bool
	}{
		{"success", jirafeau.StatusSuccess, false},
		{"not_found", jirafeau.StatusNotFound, false},
		{"error", jirafeau.StatusError, false},
		{"SUCCESS", jirafeau.StatusError, true},
		{"", jirafeau.StatusError, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			status, err := jirafeau.ParseStatus(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, status)
		})
	}
}

func TestStatus_JSON(t *testing.T) {
	data, err := json.Marshal(jirafeau.DeleteOutcome{Status: jirafeau.StatusNotFound, Err: jirafeau.ErrNotFound})
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"not_found"}`, string(data))

	var out jirafeau.DeleteOutcome
	require.NoError(t, json.Unmarshal([]byte(`{"status":"success"}`), &out))
	assert.Equal(t, jirafeau.StatusSuccess, out.Status)

	assert.Error(t, json.Unmarshal([]byte(`{"status":"bogus"}`), &out))
}

func TestUploadOutcome_Crypt(t *testing.T) {
	t.Run("without crypt key", func(t *testing.T) {
		outcome := &jirafeau.UploadOutcome{FileID: "abc", DeleteKey: "del"}
		assert.False(t, outcome.Encrypted())
		assert.Equal(t, "", outcome.Crypt())

		data, err := json.Marshal(outcome)
		require.NoError(t, err)
		assert.NotContains(t, string(data), "crypt_key")
	})

	t.Run("with crypt key", func(t *testing.T) {
		key := "ckey"
		outcome := &jirafeau.UploadOutcome{FileID: "abc", DeleteKey: "del", CryptKey: &key}
		assert.True(t, outcome.Encrypted())
		assert.Equal(t, "ckey", outcome.Crypt())
	})
}

func TestStatusOf(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected jirafeau.Status
	}{
		{"nil", nil, jirafeau.StatusSuccess},
		{"not found", jirafeau.ErrNotFound, jirafeau.StatusNotFound},
		{"wrapped not found", fmt.Errorf("download: %w", jirafeau.ErrNotFound), jirafeau.StatusNotFound},
		{"transport", jirafeau.ErrTransport, jirafeau.StatusError},
		{"host required", jirafeau.ErrHostRequired, jirafeau.StatusError},
		{"status error", &jirafeau.HTTPError{StatusCode: 500}, jirafeau.StatusError},
		{"unknown", errors.New("boom"), jirafeau.StatusError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, jirafeau.StatusOf(tt.err))
		})
	}
}

func TestErrorTaxonomy(t *testing.T) {
	assert.ErrorIs(t, jirafeau.ErrHostRequired, jirafeau.ErrConfiguration)
	assert.ErrorIs(t, jirafeau.ErrNoFilename, jirafeau.ErrMalformedResponse)
	assert.ErrorIs(t, &jirafeau.HTTPError{StatusCode: 502}, jirafeau.ErrMalformedResponse)
	assert.Equal(t, "server error: 502 Bad Gateway - oops", (&jirafeau.HTTPError{StatusCode: 502, Body: "oops"}).Error())
}
