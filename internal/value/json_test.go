package value

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMarshalJSON_Scalars(t *testing.T) {
	cases := []struct {
		v    Value
		want string
	}{
		{NewInt(42), "42"},
		{NewFloat(3.5), "3.5"},
		{NewFloat(99), "99.0"},
		{NewText("hi"), `"hi"`},
		{NewBool(true), "true"},
		{Null(), "null"},
	}
	for _, tc := range cases {
		got, err := json.Marshal(tc.v)
		require.NoError(t, err)
		require.Equal(t, tc.want, string(got))
	}
}

func TestUnmarshalJSON_KindsSurvive(t *testing.T) {
	cases := []struct {
		raw  string
		want Value
	}{
		{"42", NewInt(42)},
		{"3.5", NewFloat(3.5)},
		{"99.0", NewFloat(99)},
		{"1e3", NewFloat(1000)},
		{`"hi"`, NewText("hi")},
		{"false", NewBool(false)},
		{"null", Null()},
	}
	for _, tc := range cases {
		var got Value
		require.NoError(t, json.Unmarshal([]byte(tc.raw), &got))
		require.Equal(t, tc.want, got, "raw %s", tc.raw)
	}
}

func TestJSON_RoundTripPreservesTags(t *testing.T) {
	in := []Value{NewInt(7), NewFloat(7), NewText("7"), NewBool(true), Null()}
	raw, err := json.Marshal(in)
	require.NoError(t, err)

	var out []Value
	require.NoError(t, json.Unmarshal(raw, &out))
	require.Equal(t, in, out)
}
