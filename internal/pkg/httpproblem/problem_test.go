package httpproblem

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConstructors_StatusAndTypeURI(t *testing.T) {
	cases := []struct {
		name   string
		err    *Error
		status int
	}{
		{"validation", Validation("bad input"), http.StatusBadRequest},
		{"not-found", NotFound("no such player"), http.StatusNotFound},
		{"unauthorized", Unauthorized("missing session"), http.StatusUnauthorized},
		{"conflict", Conflict("name taken"), http.StatusConflict},
		{"upstream", Upstream("steam unreachable", errors.New("timeout")), http.StatusBadGateway},
		{"internal", Internal("boom", errors.New("boom")), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.status, tc.err.Status())
			require.Contains(t, tc.err.TypeURI(), "https://")
		})
	}
}

func TestForbidden_UsesInsufficientPermissionsTypeURI(t *testing.T) {
	err := Forbidden("missing Servers permission", []string{"servers"}, []string{"map_pool"})
	require.Equal(t, http.StatusForbidden, err.Status())
	require.Contains(t, err.TypeURI(), "insufficient-permissions")
}

func TestError_UnwrapExposesCause(t *testing.T) {
	cause := errors.New("db down")
	err := Internal("could not reach database", cause)
	require.ErrorIs(t, err, cause)
}

func TestDocument_MarshalJSON_FlattensExtensions(t *testing.T) {
	err := Forbidden("nope", []string{"servers"}, []string{"map_pool"})
	doc := err.ToDocument("/servers/1")

	data, marshalErr := json.Marshal(doc)
	require.NoError(t, marshalErr)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	require.Equal(t, "/servers/1", decoded["instance"])
	require.Equal(t, float64(http.StatusForbidden), decoded["status"])
	require.Equal(t, []any{"servers"}, decoded["required_permissions"])
	require.Equal(t, []any{"map_pool"}, decoded["actual_permissions"])
}

func TestDocument_MarshalJSON_OmitsEmptyDetailAndInstance(t *testing.T) {
	doc := Document{Type: typeURIs["not-found"], Status: http.StatusNotFound, Title: "not found"}

	data, err := json.Marshal(doc)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	_, hasDetail := decoded["detail"]
	_, hasInstance := decoded["instance"]
	require.False(t, hasDetail)
	require.False(t, hasInstance)
}
