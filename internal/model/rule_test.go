package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExactRuleStubJSON(t *testing.T) {
	stub := ExactRule{}
	data, err := json.Marshal(stub)
	require.NoError(t, err)
	assert.JSONEq(t, `{"category":null}`, string(data))

	var back ExactRule
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, back.IsStub())

	decided := ExactRule{Category: "Groceries"}
	data, err = json.Marshal(decided)
	require.NoError(t, err)
	assert.JSONEq(t, `{"category":"Groceries"}`, string(data))
	assert.False(t, decided.IsStub())
}

func TestParsePatternFlags(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "empty", in: "", want: ""},
		{name: "single", in: "i", want: "i"},
		{name: "all out of order", in: "xsmi", want: "imsx"},
		{name: "unknown flag", in: "ig", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags, err := ParsePatternFlags(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, flags.String())
		})
	}
}

func TestPatternRuleValidate(t *testing.T) {
	rule := PatternRule{Pattern: `(?i)^uber`, Normalized: "uber", Category: "Transport"}
	require.NoError(t, rule.Validate())

	missing := PatternRule{Pattern: `^uber`}
	require.Error(t, missing.Validate())
}
