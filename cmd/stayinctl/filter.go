package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"stayin/internal/adapters/htmlpage"
	"stayin/internal/listing"
	"stayin/internal/page"
)

var filterCmd = &cobra.Command{
	Use:   "filter [page.html|-]",
	Short: "Apply search, location, price and sort controls to a saved listing page",
	Long: `filter reads a rendered hotel listing page, types the given values into
its filter controls and prints the resulting page. With --table it prints
the cards in container order with their visibility instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFilter,
}

func init() {
	filterCmd.Flags().String("search", "", "hotel name filter")
	filterCmd.Flags().String("location", "", "location filter")
	filterCmd.Flags().String("max-price", "", "upper price bound")
	filterCmd.Flags().String("sort", "", "price_low, price_high, name_az or name_za")
	filterCmd.Flags().Bool("reset", false, "press reset after applying the filters")
	filterCmd.Flags().Bool("table", false, "print a card table instead of HTML")
	rootCmd.AddCommand(filterCmd)
}

func runFilter(cmd *cobra.Command, args []string) error {
	in := cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}
	collation, _ := cmd.Flags().GetString("collation")
	table, _ := cmd.Flags().GetBool("table")

	var events []page.Event
	for _, f := range []struct {
		flag string
		role listing.Role
	}{
		{"search", listing.RoleSearch},
		{"location", listing.RoleLocation},
		{"max-price", listing.RoleMaxPrice},
	} {
		if cmd.Flags().Changed(f.flag) {
			v, _ := cmd.Flags().GetString(f.flag)
			events = append(events, page.Input(string(f.role), v))
		}
	}
	if cmd.Flags().Changed("sort") {
		v, _ := cmd.Flags().GetString("sort")
		events = append(events, page.Change(string(listing.RoleSort), v))
	}
	if reset, _ := cmd.Flags().GetBool("reset"); reset {
		events = append(events, page.Click(page.TargetFilterReset))
	}

	var out bytes.Buffer
	if _, err := htmlpage.Render(in, &out, events, page.WithCollation(collation)); err != nil {
		return err
	}
	if !table {
		_, err := io.Copy(cmd.OutOrStdout(), &out)
		return err
	}
	return printTable(cmd.OutOrStdout(), &out)
}

func printTable(w io.Writer, r io.Reader) error {
	d, err := htmlpage.Parse(r)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tLOCATION\tPRICE\tSHOWN")
	for _, c := range d.OrderedCards() {
		price := "-"
		if c.HasPrice() {
			price = humanize.Commaf(c.MinPrice)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.Name, c.Location, price, yesNo(c.Shown))
	}
	return tw.Flush()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

var searchURLCmd = &cobra.Command{
	Use:   "search-url [query...]",
	Short: "Print where the home search box navigates for a query",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), page.SearchURL(strings.Join(args, " ")))
		return err
	},
}

func init() {
	rootCmd.AddCommand(searchURLCmd)
}
