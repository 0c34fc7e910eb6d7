package cmd

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/bisegni/dumpscan/pkg/dump"
	"github.com/bisegni/dumpscan/pkg/fields"
	"github.com/bisegni/dumpscan/pkg/schema"
	"github.com/bisegni/dumpscan/pkg/siteinfo"
)

var (
	redirectsPage     string
	redirectsRedirect string
	redirectsSiteinfo string
)

var redirectsCmd = &cobra.Command{
	Use:   "redirects [flags] namespace...",
	Short: "Print redirect pages of the given namespaces with their targets",
	Long: `Join a page dump with a redirect dump and print one tab separated line
per redirect page in the given namespaces: the source title and the target
title, both prefixed with their local namespace name.

Namespace names come from the siteinfo-namespaces.json file of the same dump
(plain, .gz or .xz).

Examples:
  dumpscan redirects 10
  dumpscan redirects --page enwiki-page.sql.gz --redirect enwiki-redirect.sql.gz 0 14`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRedirects,
}

func init() {
	redirectsCmd.Flags().StringVarP(&redirectsPage, "page", "p", "page.sql", "Path to the page dump")
	redirectsCmd.Flags().StringVarP(&redirectsRedirect, "redirect", "r", "redirect.sql", "Path to the redirect dump")
	redirectsCmd.Flags().StringVarP(&redirectsSiteinfo, "siteinfo", "s", "", "Path to siteinfo-namespaces.json (default from config)")
}

func parseNamespaces(args []string) (map[fields.Namespace]bool, error) {
	set := make(map[fields.Namespace]bool, len(args))
	for _, arg := range args {
		n, err := strconv.ParseInt(arg, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("namespace %q: %w", arg, err)
		}
		set[fields.Namespace(n)] = true
	}
	return set, nil
}

func runRedirects(cmd *cobra.Command, args []string) error {
	namespaces, err := parseNamespaces(args)
	if err != nil {
		return err
	}

	siteinfoPath := redirectsSiteinfo
	if siteinfoPath == "" {
		siteinfoPath = cfg.Siteinfo.Path
	}
	names, err := siteinfo.Load(siteinfoPath)
	if err != nil {
		return err
	}

	pages, err := dump.Open(redirectsPage)
	if err != nil {
		return err
	}
	defer pages.Close()
	redirects, err := dump.Open(redirectsRedirect)
	if err != nil {
		return err
	}
	defer redirects.Close()

	_, err = writeRedirects(cmd.OutOrStdout(), pages.Bytes(), redirects.Bytes(), namespaces, names)
	return err
}

type sourcePage struct {
	ns    fields.Namespace
	title fields.Title
}

// writeRedirects prints source and target of every redirect page in
// namespaces, ordered by source namespace and title. It returns the number of
// lines written.
func writeRedirects(w io.Writer, pageSQL, redirectSQL []byte, namespaces map[fields.Namespace]bool, names *siteinfo.NamespaceMap) (int, error) {
	sources := make(map[fields.PageID]sourcePage)
	pages := schema.PageTable.Iterate(pageSQL)
	for pages.Next() {
		p := pages.Row()
		if p.IsRedirect && namespaces[p.Namespace] {
			sources[p.ID] = sourcePage{ns: p.Namespace, title: p.Title}
		}
	}
	if err := pages.Error(); err != nil {
		return 0, fmt.Errorf("page dump: %w", err)
	}

	type pair struct {
		source sourcePage
		target string
	}
	var pairs []pair
	redirects := schema.RedirectTable.Iterate(redirectSQL)
	for redirects.Next() {
		r := redirects.Row()
		src, ok := sources[r.From]
		if !ok {
			continue
		}
		target, err := redirectTarget(names, r)
		if err != nil {
			return 0, err
		}
		pairs = append(pairs, pair{source: src, target: target})
	}
	if err := redirects.Error(); err != nil {
		return 0, fmt.Errorf("redirect dump: %w", err)
	}

	sort.Slice(pairs, func(i, j int) bool {
		a, b := pairs[i].source, pairs[j].source
		if a.ns != b.ns {
			return a.ns < b.ns
		}
		return a.title < b.title
	})

	for _, p := range pairs {
		source, err := names.ReadableTitle(p.source.ns, p.source.title)
		if err != nil {
			return 0, err
		}
		if _, err := fmt.Fprintf(w, "%s\t%s\n", source, p.target); err != nil {
			return 0, err
		}
	}
	return len(pairs), nil
}

func redirectTarget(names *siteinfo.NamespaceMap, r schema.Redirect) (string, error) {
	var target string
	if iw, ok := r.Interwiki.Get(); ok && iw != "" {
		// Namespaces of other wikis are not in the map.
		target = iw + ":" + r.Title.Readable()
	} else {
		t, err := names.ReadableTitle(r.Namespace, r.Title)
		if errors.Is(err, siteinfo.ErrUnknownNamespace) {
			t = fmt.Sprintf("{%d}:%s", r.Namespace, r.Title.Readable())
		} else if err != nil {
			return "", err
		}
		target = t
	}
	if frag, ok := r.Fragment.Get(); ok && frag != "" {
		target += "#" + frag
	}
	return target, nil
}
