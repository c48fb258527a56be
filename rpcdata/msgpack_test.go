package rpcdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalRoundTrip(t *testing.T) {
	cases := []string{
		`(get-book :title "hello world" :version "1984")`,
		`(get-book :title "hello world" :version '(1 2 3 4) :map '(:a 2 :r 4))`,
		`(m :nested (sub :k '(:x 1)) :n -77)`,
		`'(:z 1 :m 2 :a 3)`,
		`'(1 2 3 "d")`,
	}
	for _, s := range cases {
		d, err := FromString(s, nil)
		require.NoError(t, err, s)

		b, err := Marshal(d)
		require.NoError(t, err, s)

		got, err := Unmarshal(b)
		require.NoError(t, err, s)
		assert.Equal(t, d.String(), got.String(), s)
	}
}

func TestMarshalValueKinds(t *testing.T) {
	for _, s := range []string{`"text"`, `123`, `'sym`} {
		d, err := FromString(s, nil)
		require.NoError(t, err, s)

		b, err := Marshal(d)
		require.NoError(t, err)
		got, err := Unmarshal(b)
		require.NoError(t, err)
		assert.Equal(t, d, got, s)
	}
}

func TestUnmarshalGarbage(t *testing.T) {
	_, err := Unmarshal([]byte{0xc0})
	require.Error(t, err)

	var de *DataError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, InvalidInput, de.Kind)
}
