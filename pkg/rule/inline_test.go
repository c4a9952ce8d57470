package rule

import (
	"testing"

	"github.com/kasuganosora/shardmeta/pkg/resource/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandInlineExpression(t *testing.T) {
	tests := []struct {
		name       string
		expression string
		expected   []string
	}{
		{"plain value", "t_order", []string{"t_order"}},
		{"comma list", "ds_0.t_user, ds_1.t_user", []string{"ds_0.t_user", "ds_1.t_user"}},
		{"range", "t_order_${0..2}", []string{"t_order_0", "t_order_1", "t_order_2"}},
		{"descending range", "t_${2..0}", []string{"t_2", "t_1", "t_0"}},
		{"quoted list", "t_${['a', 'b']}", []string{"t_a", "t_b"}},
		{"bare list", "t_${[x,y]}_suffix", []string{"t_x_suffix", "t_y_suffix"}},
		{"arrow alias", "t_order_$->{0..1}", []string{"t_order_0", "t_order_1"}},
		{
			"cartesian product",
			"ds_${0..1}.t_order_${0..1}",
			[]string{"ds_0.t_order_0", "ds_0.t_order_1", "ds_1.t_order_0", "ds_1.t_order_1"},
		},
		{
			"segments with placeholders",
			"ds_0.t_${0..1}, ds_1.t_${[2, 3]}",
			[]string{"ds_0.t_0", "ds_0.t_1", "ds_1.t_2", "ds_1.t_3"},
		},
		{"dollar literal", "t$x_${0..0}", []string{"t$x_0"}},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := ExpandInlineExpression(tt.expression)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, values)
		})
	}
}

func TestExpandInlineExpression_Invalid(t *testing.T) {
	tests := []struct {
		name       string
		expression string
	}{
		{"unclosed", "t_${0..1"},
		{"unbalanced", "t_0}"},
		{"empty placeholder", "t_${}"},
		{"bad range", "t_${a..1}"},
		{"bad range end", "t_${0..z}"},
		{"unsupported", "t_${foo}"},
		{"unclosed list", "t_${['a'}"},
		{"empty list", "t_${[]}"},
		{"range beyond int32", "t_${0..10000000000}"},
		{"range too large", "t_${0..10000}"},
		{"extreme bounds", "t_${-2147483648..2147483647}"},
		{"product too large", "ds_${0..999}.t_${0..99}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExpandInlineExpression(tt.expression)
			require.Error(t, err)
			var exprErr *domain.ErrInvalidInlineExpression
			require.ErrorAs(t, err, &exprErr)
			assert.Equal(t, tt.expression, exprErr.Expression)
		})
	}
}

func TestExpandInlineExpression_MaxValues(t *testing.T) {
	values, err := ExpandInlineExpression("t_${1..10000}")
	require.NoError(t, err)
	require.Len(t, values, MaxInlineValues)
	assert.Equal(t, "t_1", values[0])
	assert.Equal(t, "t_10000", values[MaxInlineValues-1])

	values, err = ExpandInlineExpression("ds_${0..99}.t_${0..99}")
	require.NoError(t, err)
	assert.Len(t, values, MaxInlineValues)
}
