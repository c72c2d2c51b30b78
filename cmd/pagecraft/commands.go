package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	pagecraft "github.com/pagecraft/client-go"
)

const dateLayout = "2006-01-02"

func (a *app) pingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the API is reachable and the key is accepted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.client.Ping(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(a.io.Stdout, "ok")
			return nil
		},
	}
}

func (a *app) scrapeCmd() *cobra.Command {
	var (
		formats  []string
		mainOnly bool
		markdown bool
		waitFor  int
	)

	cmd := &cobra.Command{
		Use:   "scrape <url>",
		Short: "Scrape a page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := &pagecraft.ScrapeRequest{
				URL:             args[0],
				OnlyMainContent: mainOnly,
				WaitFor:         waitFor,
			}
			for _, f := range formats {
				req.Formats = append(req.Formats, pagecraft.ScrapeFormat(f))
			}
			if markdown && len(req.Formats) == 0 {
				req.Formats = []pagecraft.ScrapeFormat{pagecraft.FormatMarkdown}
			}

			result, err := a.client.Content().Scrape(cmd.Context(), req)
			if err != nil {
				return err
			}

			if markdown {
				md, err := pagecraft.MarkdownContent(result)
				if err != nil {
					return err
				}
				fmt.Fprintln(a.io.Stdout, md)
				return nil
			}
			return a.printJSON(result)
		},
	}

	cmd.Flags().StringSliceVarP(&formats, "format", "f", nil, "output formats: markdown, html, text, links, screenshot")
	cmd.Flags().BoolVar(&mainOnly, "main-only", false, "strip navigation, headers and footers")
	cmd.Flags().BoolVar(&markdown, "markdown", false, "print the page as markdown instead of JSON")
	cmd.Flags().IntVar(&waitFor, "wait-for", 0, "milliseconds to wait after load before scraping")
	return cmd
}

func (a *app) extractCmd() *cobra.Command {
	var prompt string

	cmd := &cobra.Command{
		Use:   "extract <url>",
		Short: "Extract structured data from a page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.client.Content().Extract(cmd.Context(), &pagecraft.ExtractRequest{
				URL:    args[0],
				Prompt: prompt,
			})
			if err != nil {
				return err
			}
			return a.printJSON(result)
		},
	}

	cmd.Flags().StringVarP(&prompt, "prompt", "p", "", "what to extract")
	return cmd
}

func (a *app) screenshotCmd() *cobra.Command {
	var (
		selector string
		format   string
		fullPage bool
		width    int
		height   int
	)

	cmd := &cobra.Command{
		Use:   "screenshot <url>",
		Short: "Capture a screenshot of a page or one of its elements",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				result *pagecraft.ScreenshotResult
				err    error
			)
			if selector != "" {
				result, err = a.client.Screenshot().Element(cmd.Context(), &pagecraft.ElementScreenshotRequest{
					URL:      args[0],
					Selector: selector,
					Format:   format,
				})
			} else {
				result, err = a.client.Screenshot().Capture(cmd.Context(), &pagecraft.ScreenshotRequest{
					URL:      args[0],
					FullPage: fullPage,
					Format:   format,
					Width:    width,
					Height:   height,
				})
			}
			if err != nil {
				return err
			}
			return a.printJSON(result)
		},
	}

	cmd.Flags().StringVar(&selector, "selector", "", "capture only the first element matching this CSS selector")
	cmd.Flags().StringVar(&format, "format", "png", "image format: png, jpeg or webp")
	cmd.Flags().BoolVar(&fullPage, "full-page", false, "capture the full scrollable page")
	cmd.Flags().IntVar(&width, "width", 0, "viewport width in pixels")
	cmd.Flags().IntVar(&height, "height", 0, "viewport height in pixels")
	return cmd
}

func (a *app) pdfCmd() *cobra.Command {
	var (
		format     string
		landscape  bool
		background bool
	)

	cmd := &cobra.Command{
		Use:   "pdf <url>",
		Short: "Render a page as PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.client.PDF().Generate(cmd.Context(), &pagecraft.PDFRequest{
				URL:             args[0],
				Format:          format,
				Landscape:       landscape,
				PrintBackground: background,
			})
			if err != nil {
				return err
			}
			return a.printJSON(result)
		},
	}

	cmd.Flags().StringVar(&format, "format", "A4", "paper format: A3, A4, A5, Letter or Legal")
	cmd.Flags().BoolVar(&landscape, "landscape", false, "landscape orientation")
	cmd.Flags().BoolVar(&background, "background", true, "print background graphics")
	return cmd
}

func (a *app) creditsCmd() *cobra.Command {
	var summary bool

	cmd := &cobra.Command{
		Use:   "credits",
		Short: "Show the credit balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if summary {
				s, err := a.client.Credits().Summary(cmd.Context())
				if err != nil {
					return err
				}
				return a.printJSON(s)
			}

			balance, err := a.client.Credits().Balance(cmd.Context())
			if err != nil {
				return err
			}
			return a.printJSON(balance)
		},
	}

	cmd.Flags().BoolVar(&summary, "summary", false, "show the billing period summary instead")
	return cmd
}

func (a *app) usageCmd() *cobra.Command {
	var from, to, feature, groupBy string

	cmd := &cobra.Command{
		Use:   "usage",
		Short: "Show API usage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter := &pagecraft.UsageOptions{Feature: feature, GroupBy: groupBy}

			var err error
			if filter.From, err = parseDate(from); err != nil {
				return fmt.Errorf("invalid --from: %w", err)
			}
			if filter.To, err = parseDate(to); err != nil {
				return fmt.Errorf("invalid --to: %w", err)
			}

			report, err := a.client.Usage().Get(cmd.Context(), filter)
			if err != nil {
				return err
			}
			return a.printJSON(report)
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "end date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&feature, "feature", "", "only this feature")
	cmd.Flags().StringVar(&groupBy, "group-by", "", "group by day, feature or endpoint")
	return cmd
}

func (a *app) overviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "overview",
		Short: "Show balance, credit summary and usage together",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			overview, err := a.client.Overview(cmd.Context())
			if err != nil {
				return err
			}
			return a.printJSON(overview)
		},
	}
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(dateLayout, s)
}
