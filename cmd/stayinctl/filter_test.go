package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

const savedPage = `<html><body>
<input id="hotel-search" value=""><input id="filter-location" value="">
<input id="filter-maxprice" value=""><select id="sort-select"><option value=""></option><option value="price_high"></option></select>
<button id="filter-reset"></button>
<div id="hotel-grid">
  <div class="hotel-card" data-name="Sunset Paradise Resort" data-location="Goa" data-minprice="5200"></div>
  <div class="hotel-card" data-name="City Comfort Inn" data-location="Bangalore" data-minprice="3500"></div>
  <div class="hotel-card" data-name="Beach Hut" data-location="Goa" data-minprice=""></div>
</div></body></html>`

func execute(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	// commands are package globals; forget flags from earlier runs
	filterCmd.Flags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
	var out bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("execute %v: %v", args, err)
	}
	return out.String()
}

func TestFilterTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hotels.html")
	if err := os.WriteFile(path, []byte(savedPage), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got := execute(t, "", "filter", path, "--location", "goa", "--sort", "price_high", "--table")

	lines := strings.Split(strings.TrimSpace(got), "\n")
	if len(lines) != 4 {
		t.Fatalf("unexpected table:\n%s", got)
	}
	// hidden card stays ahead; unpriced Beach Hut sorts as most expensive
	for i, want := range []string{"City Comfort Inn", "Beach Hut", "Sunset Paradise Resort"} {
		if !strings.HasPrefix(lines[i+1], want) {
			t.Fatalf("row %d = %q, want %s", i+1, lines[i+1], want)
		}
	}
	if !strings.HasSuffix(lines[1], "no") || !strings.Contains(lines[3], "5,200") {
		t.Fatalf("unexpected rows:\n%s", got)
	}
}

func TestFilterFromStdinWritesHTML(t *testing.T) {
	got := execute(t, savedPage, "filter", "-", "--max-price", "4000")
	if !strings.Contains(got, `data-name="Sunset Paradise Resort" data-location="Goa" data-minprice="5200" style="display: none"`) {
		t.Fatalf("expected hidden Sunset card in:\n%s", got)
	}
}

func TestSearchURL(t *testing.T) {
	if got := execute(t, "", "search-url", "sea", "view"); got != "/hotels?q=sea%20view\n" {
		t.Fatalf("search-url = %q", got)
	}
}
