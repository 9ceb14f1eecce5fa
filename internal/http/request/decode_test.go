package request

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Email string `json:"email"`
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    payload
		wantErr bool
	}{
		{name: "valid", body: `{"email":"john@example.com"}`, want: payload{Email: "john@example.com"}},
		{name: "empty body", body: ``, want: payload{}},
		{name: "malformed", body: `{"email":`, wantErr: true},
		{name: "not json", body: `not a json`, wantErr: true},
		{name: "unknown field", body: `{"email":"a@b.c","admin":true}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))

			var got payload
			err := DecodeJSON(r, &got)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
