package identifier_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kz-league/backend/internal/identifier"
)

func TestUnmarshalPrefersID(t *testing.T) {
	var i identifier.Identifier
	require.NoError(t, json.Unmarshal([]byte(`42`), &i))
	id, ok := i.ID()
	assert.True(t, ok)
	assert.Equal(t, uint64(42), id)

	var fromNumericString identifier.Identifier
	require.NoError(t, json.Unmarshal([]byte(`"42"`), &fromNumericString))
	id, ok = fromNumericString.ID()
	assert.True(t, ok)
	assert.Equal(t, uint64(42), id)
}

func TestUnmarshalFallsBackToName(t *testing.T) {
	var i identifier.Identifier
	require.NoError(t, json.Unmarshal([]byte(`"kz_grotto"`), &i))
	name, ok := i.Name()
	assert.True(t, ok)
	assert.Equal(t, "kz_grotto", name)
}

func TestParseFromPathParam(t *testing.T) {
	assert.Equal(t, identifier.KindID, identifier.ParseFromPathParam("7").Kind())
	assert.Equal(t, identifier.KindName, identifier.ParseFromPathParam("kz_grotto").Kind())
}
