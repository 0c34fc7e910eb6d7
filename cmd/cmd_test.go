package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bisegni/dumpscan/pkg/database"
	"github.com/bisegni/dumpscan/pkg/dump"
	"github.com/bisegni/dumpscan/pkg/export"
	"github.com/bisegni/dumpscan/pkg/fields"
	"github.com/bisegni/dumpscan/pkg/parser"
	"github.com/bisegni/dumpscan/pkg/schema"
	"github.com/bisegni/dumpscan/pkg/siteinfo"
)

const pageSQL = "CREATE TABLE `page` (\n  `page_id` int(8) unsigned NOT NULL\n);\n" +
	"INSERT INTO `page` VALUES " +
	"(1,10,'Cite',1,0,0.1,'20240101000000',NULL,11,20,'wikitext',NULL)," +
	"(2,10,'Citation',0,0,0.2,'20240101000000',NULL,12,900,'wikitext',NULL)," +
	"(3,0,'UK',1,0,0.3,'20240101000000',NULL,13,30,'wikitext',NULL)," +
	"(4,10,'Cite_news_\\'s',1,0,0.4,'20240101000000',NULL,14,25,'wikitext',NULL);\n"

const redirectSQL = "INSERT INTO `redirect` VALUES " +
	"(1,10,'Citation','',''),(3,0,'United_Kingdom','','History')," +
	"(4,10,'Cite_news',NULL,NULL),(9,0,'Elsewhere','','');\n"

const namespacesJSON = `{"query":{"namespaces":{
  "0":{"id":0,"*":""},
  "10":{"id":10,"*":"Template","canonical":"Template"}}}}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestParseLiteral(t *testing.T) {
	tests := []struct {
		in   string
		want interface{}
	}{
		{"14", float64(14)},
		{"-2.5", -2.5},
		{"true", true},
		{"null", nil},
		{"Main_Page", "Main_Page"},
		{`"quoted"`, `"quoted"`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLiteral(tt.in), tt.in)
	}
}

func TestParseTableSpec(t *testing.T) {
	spec, err := parseTableSpec("/data/enwiki-20240101-page.sql.gz")
	require.NoError(t, err)
	assert.Equal(t, "page", spec.name)
	assert.Equal(t, "page", spec.schema.TableName())

	spec, err = parseTableSpec("p=/data/page.sql")
	require.NoError(t, err)
	assert.Equal(t, "p", spec.name)
	assert.Equal(t, "/data/page.sql", spec.path)
	assert.Equal(t, "page", spec.schema.TableName(), "schema falls back to the file name")

	spec, err = parseTableSpec("redirect=/data/rd.sql")
	require.NoError(t, err)
	assert.Equal(t, "redirect", spec.schema.TableName())

	_, err = parseTableSpec("x=/data/unknown.sql")
	assert.Error(t, err)
	_, err = parseTableSpec("page=")
	assert.Error(t, err)
}

func TestFilterExpression(t *testing.T) {
	record := database.OrderedMap{
		{Key: "page_namespace", Val: int64(10)},
		{Key: "page_title", Val: "Cite"},
	}.ToRecord()

	expr, err := filterExpression("", "page_namespace", "=", "10")
	require.NoError(t, err)
	assert.True(t, expr.Evaluate(record))

	expr, err = filterExpression("page_namespace=0 OR page_title~=Ci", "", "", "")
	require.NoError(t, err)
	assert.True(t, expr.Evaluate(record))

	_, err = filterExpression("", "", "=", "1")
	assert.Error(t, err)
}

func TestGatherStats(t *testing.T) {
	stats, err := gatherStats([]byte(pageSQL), schema.PageTable)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Statements)
	assert.Equal(t, 4, stats.Rows)
	// Three text columns per row, with one escaped title copied.
	assert.Equal(t, 4*3-1, stats.Borrowed)
	assert.Equal(t, 1, stats.Owned)
	assert.Equal(t, 4*2, stats.Kinds[parser.KindNull])
	assert.Equal(t, 4, stats.Nulls[7], "page_links_updated")
	assert.Equal(t, 0, stats.Nulls[0])

	_, err = gatherStats([]byte("INSERT INTO `page` VALUES (1,2);"), schema.PageTable)
	assert.ErrorIs(t, err, parser.ErrColumnCountMismatch)
}

func TestWriteRedirects(t *testing.T) {
	names, err := siteinfo.Parse([]byte(namespacesJSON))
	require.NoError(t, err)

	var out bytes.Buffer
	n, err := writeRedirects(&out, []byte(pageSQL), []byte(redirectSQL), map[fields.Namespace]bool{10: true}, names)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "Template:Cite\tTemplate:Citation\nTemplate:Cite news 's\tTemplate:Cite news\n", out.String())

	out.Reset()
	n, err = writeRedirects(&out, []byte(pageSQL), []byte(redirectSQL), map[fields.Namespace]bool{0: true, 10: true}, names)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.True(t, strings.HasPrefix(out.String(), "UK\tUnited Kingdom#History\n"))
}

func TestParseNamespaces(t *testing.T) {
	set, err := parseNamespaces([]string{"0", "-2", "14"})
	require.NoError(t, err)
	assert.Equal(t, map[fields.Namespace]bool{0: true, -2: true, 14: true}, set)

	_, err = parseNamespaces([]string{"main"})
	assert.Error(t, err)
}

func TestInteractivePlan(t *testing.T) {
	catalog := database.NewCatalog()
	catalog.RegisterTable("page", database.NewDumpTable(dump.FromBytes([]byte(pageSQL)), schema.PageTable))
	defer catalog.Close()

	var out bytes.Buffer
	require.NoError(t, executeInteractive(context.Background(), catalog, "page_namespace=10 AND page_len<100", &out))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Len(t, lines, 2)

	out.Reset()
	require.NoError(t, executeInteractive(context.Background(), catalog, "SELECT COUNT(page_id) AS n", &out))
	assert.Equal(t, "{\"n\":4}\n", out.String())

	out.Reset()
	require.NoError(t, executeInteractive(context.Background(), catalog, `\explain SELECT page_id WHERE page_len > 10`, &out))
	assert.Contains(t, out.String(), "Scan(table: page)")

	out.Reset()
	require.NoError(t, executeInteractive(context.Background(), catalog, `\tables`, &out))
	assert.Equal(t, "page\n", out.String())

	assert.Error(t, executeInteractive(context.Background(), catalog, "page_title", &out))
}

func TestCommands(t *testing.T) {
	pages := writeFile(t, "enwiki-20240101-page.sql", pageSQL)

	out, err := run(t, "count", pages, "--workers", "2")
	require.NoError(t, err)
	assert.Equal(t, "4\n", out)

	out, err = run(t, "validate", pages)
	require.NoError(t, err)
	assert.Contains(t, out, "Valid page dump with 4 row(s)")

	out, err = run(t, "dump", pages)
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 4)
	assert.Contains(t, out, `"title":"Cite_news_'s"`)

	out, err = run(t, "query", "--table", pages, "SELECT page_title WHERE page_len > 100")
	require.NoError(t, err)
	assert.Equal(t, "{\"page_title\":\"Citation\"}\n", out)

	db := filepath.Join(t.TempDir(), "wiki.db")
	out, err = run(t, "export", pages, "--sqlite", db, "--batch", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Inserted 4 row(s)")

	conn, err := export.OpenSQLite(db)
	require.NoError(t, err)
	defer conn.Close()
	var title string
	require.NoError(t, conn.QueryRow(`SELECT page_title FROM page WHERE page_id = ?`, 4).Scan(&title))
	assert.Equal(t, "Cite_news_'s", title)

	broken := writeFile(t, "page.sql", "INSERT INTO `page` VALUES (1,0,'A',0,0,0.0,'20240101000000',NULL,1,1,'wikitext',NULL),(2,0,'B');\n")
	out, err = run(t, "validate", broken)
	require.Error(t, err)
	assert.ErrorIs(t, err, parser.ErrColumnCountMismatch)
	assert.Contains(t, out, "near byte")

	_, err = run(t, "count", writeFile(t, "nosuchtable.sql", ""))
	assert.ErrorContains(t, err, "unknown table")
}
