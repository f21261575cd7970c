package checkout

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		raw  string
		want string
	}{
		{name: "plain", raw: "10.00", want: "10"},
		{name: "currency symbol", raw: "$10.50", want: "10.5"},
		{name: "european thousands", raw: "$1.234,56", want: "1234.56"},
		{name: "us thousands", raw: "1,234.56", want: "1234.56"},
		{name: "comma decimal", raw: "9,99", want: "9.99"},
		{name: "embedded text", raw: "MXN 250.00 aprox", want: "250"},
		{name: "integer", raw: "42", want: "42"},
		{name: "empty", raw: "", want: "0"},
		{name: "garbage", raw: "gratis", want: "0"},
		{name: "lone separator", raw: "$.", want: "0"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := ParsePrice(tc.raw)
			require.Equal(t, tc.want, got.String())
		})
	}
}
