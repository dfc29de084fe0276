package protocol_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-game-gateway/protocol"
)

func TestEnvelopeCarriesPayload(t *testing.T) {
	env, err := protocol.NewEnvelope(protocol.ActionUserDetails, "g1", protocol.UserDetails{
		TenantName: "acme",
		GameID:     "g1",
		UserID:     "user-1",
		Balance:    99.5,
		Locale:     "en-US",
		Currency:   "TZS",
	})
	require.NoError(t, err)
	require.Equal(t, "g1", env.SessionID)

	var details protocol.UserDetails
	require.NoError(t, env.DecodePayload(&details))
	require.Equal(t, 99.5, details.Balance)
	require.Empty(t, details.SessionToken)
}

func TestEnvelopeWithoutPayload(t *testing.T) {
	env, err := protocol.NewEnvelope(protocol.ActionGameLoaded, "", nil)
	require.NoError(t, err)

	raw, err := json.Marshal(env)
	require.NoError(t, err)
	require.JSONEq(t, `{"action":"gameLoaded"}`, string(raw))
}

func TestLocaleAndCurrencyPartialDecode(t *testing.T) {
	var update protocol.LocaleAndCurrency
	env := protocol.Envelope{
		Action:  protocol.ActionUpdateLocaleAndCurrency,
		Payload: json.RawMessage(`{"currency":"USD"}`),
	}
	require.NoError(t, env.DecodePayload(&update))
	require.Nil(t, update.Locale)
	require.NotNil(t, update.Currency)
	require.Equal(t, "USD", *update.Currency)
}

func TestWireFieldNames(t *testing.T) {
	raw, err := json.Marshal(protocol.UserDetails{GameID: "g1", UserID: "u1", CallbackURL: "cb"})
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))
	require.Contains(t, fields, "gameId")
	require.Contains(t, fields, "userId")
	require.Contains(t, fields, "callbackUrl")
	require.Contains(t, fields, "tenantName")
}
