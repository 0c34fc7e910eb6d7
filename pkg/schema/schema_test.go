package schema

import (
	"errors"
	"strings"
	"testing"
	"time"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bisegni/dumpscan/pkg/fields"
	"github.com/bisegni/dumpscan/pkg/parser"
)

const pageDump = "CREATE TABLE `page` (\n  `page_id` int(8) unsigned NOT NULL AUTO_INCREMENT\n) ENGINE=InnoDB;\n" +
	"INSERT INTO page VALUES (1,0,'A',0,0,0.0,'20200101000000',NULL,10,1,'wikitext',NULL),(2,0,'B',0,0,0.0,'20200101000000',NULL,10,1,'wikitext',NULL);"

func TestPageRows(t *testing.T) {
	rows, err := parser.Collect(PageTable.Iterate([]byte(pageDump)))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, fields.PageID(1), rows[0].ID)
	assert.Equal(t, fields.PageID(2), rows[1].ID)
	assert.Equal(t, fields.Title("A"), rows[0].Title)
	assert.Equal(t, fields.NamespaceMain, rows[0].Namespace)
	assert.False(t, rows[0].IsRedirect)
	assert.True(t, rows[0].Touched.Equal(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, rows[0].LinksUpdated.Valid)
	assert.Equal(t, fields.RevisionID(10), rows[0].Latest)
	assert.Equal(t, uint32(1), rows[0].Len)
	assert.Equal(t, fields.Some(fields.ContentModelWikitext), rows[0].ContentModel)
	assert.False(t, rows[0].Lang.Valid)
}

func TestTitlesBorrowFromInput(t *testing.T) {
	buf := []byte(pageDump)
	rows, err := parser.Collect(PageTable.Iterate(buf))
	require.NoError(t, err)

	at := strings.Index(pageDump, "'B'") + 1
	title := string(rows[1].Title)
	if unsafe.StringData(title) != &buf[at] {
		t.Fatalf("title was copied instead of borrowed")
	}
}

func TestRangeEnforcementDiffersFromNull(t *testing.T) {
	decode := func(id string) error {
		dump := "INSERT INTO page VALUES (" + id + ",0,'A',0,0,0.0,'20200101000000',NULL,10,1,'wikitext',NULL);"
		_, err := parser.Collect(PageTable.Iterate([]byte(dump)))
		return err
	}

	negative := decode("-1")
	null := decode("NULL")
	for _, err := range []error{negative, null} {
		require.ErrorIs(t, err, parser.ErrTypeConversion)
		var re *parser.RowDecodeError
		require.True(t, errors.As(err, &re))
		assert.Equal(t, "page", re.Table)
		assert.Equal(t, 0, re.Column)
		assert.Equal(t, "page_id", re.ColumnName)
		assert.Equal(t, len("INSERT INTO page VALUES ("), re.Offset)
	}

	var neg, nul *fields.ConversionError
	require.True(t, errors.As(negative, &neg))
	require.True(t, errors.As(null, &nul))
	assert.Equal(t, fields.ReasonRange, neg.Reason)
	assert.Equal(t, fields.ReasonNull, nul.Reason)
	assert.NotEqual(t, neg.Reason, nul.Reason)
}

func TestDecodeErrorsNameTheColumn(t *testing.T) {
	tests := []struct {
		name   string
		tuple  string
		column string
		err    error
	}{
		{"bad timestamp", "(1,0,'A',0,0,0.0,'20201301000000',NULL,10,1,'wikitext',NULL)", "page_touched", parser.ErrInvalidTimestamp},
		{"bad boolean", "(1,0,'A',2,0,0.0,'20200101000000',NULL,10,1,'wikitext',NULL)", "page_is_redirect", parser.ErrTypeConversion},
		{"binary title", "(1,0,'\xff',0,0,0.0,'20200101000000',NULL,10,1,'wikitext',NULL)", "page_title", parser.ErrInvalidUTF8},
		{"null length", "(1,0,'A',0,0,0.0,'20200101000000',NULL,10,NULL,'wikitext',NULL)", "page_len", parser.ErrTypeConversion},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.Collect(PageTable.Iterate([]byte("INSERT INTO `page` VALUES " + tt.tuple + ";")))
			require.ErrorIs(t, err, tt.err)
			col, ok := ColumnOf(err)
			require.True(t, ok)
			assert.Equal(t, tt.column, col)
		})
	}
}

func TestEveryTableDecodesASample(t *testing.T) {
	samples := map[string]string{
		"category":           "(1,'Living_people',1000,2,-1)",
		"categorylinks":      "(10,'Living_people','SMITH, JOHN\\nJohn Smith','2021-01-01 00:00:00','','uca-default-u-kn','page')",
		"change_tag_def":     "(1,'mw-replace',0,34)",
		"change_tag":         "(1,NULL,NULL,55,NULL,1)",
		"externallinks":      "(1,10,'https://example.org/','https://org.example./','https://org.example./')",
		"image":              "('Example.jpg',1024,640,480,'a:0:{}',8,'BITMAP','image','jpeg',3,4,'20200101000000','phoiac9h4m842xq45sp7s6u21eteeq1',0)",
		"imagelinks":         "(10,0,'Example.jpg')",
		"iwlinks":            "(10,'wikt','dog')",
		"langlinks":          "(10,'de','Hund')",
		"page":               "(1,0,'A',1,1,0.25,'20200101000000','20200102000000',10,1,'wikitext','en')",
		"pagelinks":          "(10,0,0,'Dog')",
		"page_props":         "(10,'wikibase_item','Q144',NULL)",
		"page_restrictions":  "(10,'edit','sysop',0,NULL,'infinity',7)",
		"protected_titles":   "(0,'Forbidden',1,2,'20200101000000','infinity','sysop')",
		"redirect":           "(10,0,'Dog','','Section')",
		"sites":              "(1,'enwiki','mediawiki','wikipedia','local','en','','gro.aidepikiw.ne.','a:0:{}',0,'a:0:{}')",
		"site_stats":         "(1,100,10,50,5,1,NULL)",
		"templatelinks":      "(10,10,'Infobox',0)",
		"user_former_groups": "(5,'sysop')",
		"user_groups":        "(5,'sysop',NULL)",
		"wbc_entity_usage":   "(1,'Q144','S',10)",
	}
	require.ElementsMatch(t, Names(), keys(samples))

	for name, tuple := range samples {
		t.Run(name, func(t *testing.T) {
			table, ok := Lookup(name)
			require.True(t, ok)
			dump := "INSERT INTO `" + name + "` VALUES " + tuple + "," + tuple + ";"

			it := table.Records([]byte(dump), Whole([]byte(dump)))
			n := 0
			for it.Next() {
				n++
				assert.Len(t, it.Values(), table.Width())
				assert.NotNil(t, it.Row())
			}
			require.NoError(t, it.Error())
			assert.Equal(t, 2, n)
			assert.Equal(t, 2, it.Rows())
			assert.Len(t, table.ColumnNames(), table.Width())
		})
	}
}

func keys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func TestRecordValuesArePlain(t *testing.T) {
	dump := []byte("INSERT INTO page VALUES (7,2,'Foo_bar',1,0,0.5,'20200101000000',NULL,10,42,'wikitext',NULL);")
	it := PageTable.Records(dump, Whole(dump))
	require.True(t, it.Next())
	assert.Equal(t, []any{
		int64(7), int64(2), "Foo_bar", true, false, 0.5, "2020-01-01T00:00:00Z",
		nil, int64(10), int64(42), "wikitext", nil,
	}, it.Values())
	assert.False(t, it.Next())
	assert.NoError(t, it.Error())
}

func TestTableFromPath(t *testing.T) {
	tests := map[string]string{
		"page.sql":                           "page",
		"/data/redirect.sql.gz":              "redirect",
		"enwiki-20230101-page_props.sql.gz":  "page_props",
		"enwiki-latest-categorylinks.sql.xz": "categorylinks",
		"notes.sql":                          "notes",
	}
	for path, want := range tests {
		assert.Equal(t, want, TableFromPath(path), path)
	}

	_, err := MustLookup("nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "page_props")
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	assert.Panics(t, func() { Register(New[Page]("page")) })
}
