package httputil

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLooseString(t *testing.T) {
	cases := map[string]string{
		`"beta"`:  "beta",
		`7`:       "7",
		`2.5`:     "2.5",
		`true`:    "true",
		`null`:    "",
		`{"a":1}`: "",
		`[1]`:     "",
		``:        "",
	}
	for in, want := range cases {
		assert.Equal(t, want, LooseString(json.RawMessage(in)), in)
	}
}

func TestTruthy(t *testing.T) {
	for _, in := range []string{`"x"`, `123`, `true`, `{}`, `[]`} {
		assert.True(t, Truthy(json.RawMessage(in)), in)
	}
	for _, in := range []string{``, `null`, `false`, `0`, `""`} {
		assert.False(t, Truthy(json.RawMessage(in)), in)
	}
}
