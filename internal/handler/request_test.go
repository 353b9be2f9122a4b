package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCost_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{`10`, 10, false},
		{`"15"`, 15, false},
		{`" 9.99 "`, 9.99, false},
		{`"abc"`, 0, true},
		{`"NaN"`, 0, true},
		{`"nan"`, 0, true},
		{`"Inf"`, 0, true},
		{`"-Infinity"`, 0, true},
		{`1e400`, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var c Cost
			err := c.UnmarshalJSON([]byte(tt.in))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.Value)
		})
	}
}

func TestNotBlankValidation(t *testing.T) {
	assert.NoError(t, validate.Var("Netflix", "notblank"))
	assert.Error(t, validate.Var(" \t", "notblank"))
}
