package fields

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bisegni/dumpscan/pkg/parser"
)

func literal(t *testing.T, src string) parser.Value {
	t.Helper()
	v, n, err := parser.ReadLiteral([]byte(src), 0)
	require.NoError(t, err)
	require.Equal(t, len(src), n)
	return v
}

func reason(t *testing.T, err error) string {
	t.Helper()
	var ce *ConversionError
	require.True(t, errors.As(err, &ce), "not a conversion error: %v", err)
	return ce.Reason
}

func TestIntegerRanges(t *testing.T) {
	id, err := Integer[PageID](literal(t, "4294967295"))
	require.NoError(t, err)
	assert.Equal(t, PageID(4294967295), id)

	ns, err := Integer[Namespace](literal(t, "-2"))
	require.NoError(t, err)
	assert.Equal(t, NamespaceMedia, ns)

	tests := []struct {
		name string
		src  string
		conv func(parser.Value) error
		want string
	}{
		{"negative unsigned", "-1", func(v parser.Value) error { _, err := Integer[PageID](v); return err }, ReasonRange},
		{"null unsigned", "NULL", func(v parser.Value) error { _, err := Integer[PageID](v); return err }, ReasonNull},
		{"text for integer", "'1'", func(v parser.Value) error { _, err := Integer[PageID](v); return err }, ReasonKind},
		{"float for integer", "1.0", func(v parser.Value) error { _, err := Int64(v); return err }, ReasonKind},
		{"uint32 overflow", "4294967296", func(v parser.Value) error { _, err := Integer[UserID](v); return err }, ReasonRange},
		{"int32 overflow", "2147483648", func(v parser.Value) error { _, err := Integer[Namespace](v); return err }, ReasonRange},
		{"int8 underflow", "-129", func(v parser.Value) error { _, err := Integer[int8](v); return err }, ReasonRange},
		{"negative uint64", "-5", func(v parser.Value) error { _, err := Integer[uint64](v); return err }, ReasonRange},
		{"bool two", "2", func(v parser.Value) error { _, err := Bool(v); return err }, ReasonRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.conv(literal(t, tt.src))
			require.ErrorIs(t, err, parser.ErrTypeConversion)
			assert.Equal(t, tt.want, reason(t, err))
		})
	}
}

func TestBoolAndFloat(t *testing.T) {
	b, err := Bool(literal(t, "1"))
	require.NoError(t, err)
	assert.True(t, b)

	f, err := Float(literal(t, "0.25"))
	require.NoError(t, err)
	assert.Equal(t, OrderedFloat(0.25), f)

	f, err = Float(literal(t, "3"))
	require.NoError(t, err)
	assert.Equal(t, OrderedFloat(3), f)
	assert.Equal(t, -1, OrderedFloat(1).Compare(2))
	assert.Equal(t, 0, f.Compare(3))
	assert.True(t, OrderedFloat(-1).Less(0))

	_, err = Float(literal(t, "'x'"))
	assert.ErrorIs(t, err, parser.ErrTypeConversion)
}

func TestTextConversions(t *testing.T) {
	buf := []byte(`'Main_Page'`)
	v, _, err := parser.ReadLiteral(buf, 0)
	require.NoError(t, err)

	title, err := ParseTitle(v)
	require.NoError(t, err)
	assert.Equal(t, Title("Main_Page"), title)
	assert.Equal(t, "Main Page", title.Readable())

	_, err = ParseTitle(literal(t, `'Main Page'`))
	assert.ErrorIs(t, err, parser.ErrTypeConversion)

	_, err = String(literal(t, "'\xff'"))
	require.ErrorIs(t, err, parser.ErrInvalidUTF8)
	assert.Equal(t, ReasonEncoding, reason(t, err))

	raw, err := Bytes(literal(t, "'\xff'"))
	require.NoError(t, err)
	assert.Equal(t, Blob{0xff}, raw)

	_, err = String(literal(t, "NULL"))
	assert.Equal(t, ReasonNull, reason(t, err))
}

func TestCaseInsensitive(t *testing.T) {
	assert.True(t, CaseInsensitive("EN").Equal("en"))
	assert.True(t, CaseInsensitive("Éclair").Equal("éCLAIR"))
	assert.False(t, CaseInsensitive("de").Equal("en"))
}

func TestTimestamp(t *testing.T) {
	want := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	for _, src := range []string{`'20200102030405'`, `'2020-01-02 03:04:05'`} {
		ts, err := ParseTimestamp(literal(t, src))
		require.NoError(t, err, src)
		assert.True(t, want.Equal(ts.Time), src)
		assert.Equal(t, "20200102030405", ts.String())
	}

	bad := []string{
		`'20201301000000'`,
		`'20200230000000'`,
		`'20200101246000'`,
		`'2020010100000'`,
		`'2020-01-01T00:00:00'`,
		`'abcdefghijklmn'`,
	}
	for _, src := range bad {
		_, err := ParseTimestamp(literal(t, src))
		assert.ErrorIs(t, err, parser.ErrInvalidTimestamp, src)
	}

	_, err := ParseTimestamp(literal(t, "20200101000000"))
	assert.ErrorIs(t, err, parser.ErrTypeConversion)
	assert.NotErrorIs(t, err, parser.ErrInvalidTimestamp)
}

func TestExpiry(t *testing.T) {
	e, err := ParseExpiry(literal(t, `'infinity'`))
	require.NoError(t, err)
	assert.True(t, e.Infinite)
	assert.Equal(t, "infinity", e.String())
	out, err := json.Marshal(e)
	require.NoError(t, err)
	assert.JSONEq(t, `"infinity"`, string(out))

	e, err = ParseExpiry(literal(t, `'20300101000000'`))
	require.NoError(t, err)
	assert.False(t, e.Infinite)
	assert.Equal(t, 2030, e.Year())
}

func TestNullable(t *testing.T) {
	conv := Null(Integer[PageID])

	got, err := conv(literal(t, "NULL"))
	require.NoError(t, err)
	assert.False(t, got.Valid)

	got, err = conv(literal(t, "7"))
	require.NoError(t, err)
	assert.Equal(t, Some(PageID(7)), got)

	_, err = conv(literal(t, "-7"))
	assert.Equal(t, ReasonRange, reason(t, err))

	out, err := json.Marshal(struct {
		A Nullable[PageID]
		B Nullable[Title]
	}{A: Some(PageID(3))})
	require.NoError(t, err)
	assert.JSONEq(t, `{"A":3,"B":null}`, string(out))
}

func TestPlain(t *testing.T) {
	ts := Timestamp{time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)}
	tests := []struct {
		in   any
		want any
	}{
		{PageID(5), int64(5)},
		{Namespace(-1), int64(-1)},
		{Title("A_b"), "A_b"},
		{OrderedFloat(0.5), 0.5},
		{true, true},
		{Nullable[PageID]{}, nil},
		{Some(Title("x")), "x"},
		{ts, ts.Time},
		{Expiry{Infinite: true}, "infinity"},
		{ContentModelWikitext, "wikitext"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Plain(tt.in), "%T", tt.in)
	}
}

func TestEnums(t *testing.T) {
	pt, err := ParsePageType(literal(t, `'subcat'`))
	require.NoError(t, err)
	assert.Equal(t, PageTypeSubcat, pt)

	_, err = ParsePageType(literal(t, `'portal'`))
	require.ErrorIs(t, err, parser.ErrTypeConversion)
	assert.Equal(t, ReasonEnum, reason(t, err))

	assert.True(t, ContentModelScribunto.Known())
	assert.False(t, ContentModel("proofread-page").Known())
	assert.True(t, ProtectionNone.Known())
	assert.True(t, MediaType3D.Known())
	assert.False(t, MajorMime("chemical").Known())
	assert.True(t, PageActionUpload.Known())
}
