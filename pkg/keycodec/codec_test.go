package keycodec

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeString_OrderPreserving(t *testing.T) {
	pairs := [][2]string{
		{"a", "b"},
		{"apple", "banana"},
		{"", "a"},
		{"a", "aa"},
		{"foo\x00bar", "foo\x00baz"},
		{"foo\x00", "foo\x00\x00"},
	}
	for _, p := range pairs {
		lo := EncodeString(nil, p[0])
		hi := EncodeString(nil, p[1])
		assert.Negative(t, compareBytes(lo, hi), "expected EncodeString(%q) < EncodeString(%q)", p[0], p[1])
	}
}

func compareBytes(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return int(a[i]) - int(b[i])
		}
	}
	return len(a) - len(b)
}

func TestEncodeDatetime_OrderMatchesChronological(t *testing.T) {
	t1 := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := time.Date(2020, 1, 1, 0, 0, 0, 0, time.FixedZone("X", -3600)) // same wall clock in a UTC-1 zone: one hour after t1
	t3 := t1.Add(time.Second)

	e1 := EncodeDatetime(nil, t1)
	e3 := EncodeDatetime(nil, t3)
	assert.Negative(t, compareBytes(e1, e3))

	// t2 represents the same wall time but in a -1h zone, i.e. a later instant than t1.
	e2 := EncodeDatetime(nil, t2)
	assert.Negative(t, compareBytes(e1, e2))
}

func TestEncodeNumber_RejectsNegativeWithoutOffset(t *testing.T) {
	_, err := EncodeNumber(nil, -1, DefaultNumberPadding)
	require.ErrorIs(t, err, ErrNegativeNumber)

	got, err := EncodeNumber(nil, -1, NumberPadding{Width: 10, Offset: 1000})
	require.NoError(t, err)
	assert.NotEmpty(t, got)
}

func TestEncodeNumber_OrderPreserving(t *testing.T) {
	pad := NumberPadding{Width: 10}
	values := []float64{0, 1, 2, 10, 99, 100, 1000}
	for i := 1; i < len(values); i++ {
		lo, err := EncodeNumber(nil, values[i-1], pad)
		require.NoError(t, err)
		hi, err := EncodeNumber(nil, values[i], pad)
		require.NoError(t, err)
		assert.Negative(t, compareBytes(lo, hi))
	}
}

func TestComposeKeyAndSplit_RoundTrip(t *testing.T) {
	var f1, f2 []byte
	f1 = EncodeString(f1, "posts")
	f2 = EncodeBool(f2, true)

	key := ComposeKey([][]byte{f1, f2}, "content/posts/hello.md")

	segments, err := SplitExpect(key, 3)
	require.NoError(t, err)

	if diff := cmp.Diff([]string{"posts", "1", "content/posts/hello.md"}, []string{
		DecodeString(segments[0]),
		DecodeString(segments[1]),
		DecodeString(segments[2]),
	}); diff != "" {
		t.Fatalf("segment mismatch (-want +got):\n%s", diff)
	}
}

func TestSplit_DetectsArityMismatch(t *testing.T) {
	var f1 []byte
	f1 = EncodeString(f1, "posts")
	key := ComposeKey([][]byte{f1}, "content/posts/hello.md")

	_, err := SplitExpect(key, 3)
	require.ErrorIs(t, err, ErrArityMismatch)
}

func TestSplit_RejectsMalformedKey(t *testing.T) {
	_, err := Split([]byte{'a', 'b', 0x00, 0x05})
	require.ErrorIs(t, err, ErrMalformedKey)

	_, err = Split([]byte{'a', 'b', 0x00})
	require.ErrorIs(t, err, ErrMalformedKey)
}

func TestPrefixUpperBound_SortsAbovePrefixAndItsContinuations(t *testing.T) {
	var f1 []byte
	f1 = EncodeString(f1, "posts")
	upper := PrefixUpperBound(f1)

	key := ComposeKey([][]byte{f1}, "content/posts/hello.md")
	assert.Negative(t, compareBytes(key, upper), "key with prefix should sort below the upper bound")
	assert.Positive(t, compareBytes(upper, f1), "upper bound should sort above the bare prefix")
}

func TestDecodeBool(t *testing.T) {
	v, err := DecodeBool([]byte("1"))
	require.NoError(t, err)
	assert.True(t, v)

	v, err = DecodeBool([]byte("0"))
	require.NoError(t, err)
	assert.False(t, v)

	_, err = DecodeBool([]byte("x"))
	require.ErrorIs(t, err, ErrMalformedKey)
}

func TestDecodeDatetime_RoundTrip(t *testing.T) {
	want := time.Date(2024, 3, 17, 9, 30, 0, 0, time.UTC)
	enc := EncodeDatetime(nil, want)
	segments, err := Split(enc)
	require.NoError(t, err)
	require.Len(t, segments, 1)

	got, err := DecodeDatetime(segments[0])
	require.NoError(t, err)
	assert.True(t, want.Equal(got))
}
