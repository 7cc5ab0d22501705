// package formatter renders order summaries in various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/desertthunder/scoop/internal/models"
	"github.com/desertthunder/scoop/internal/shared"
)

// Format names an output format.
type Format string

const (
	FormatText     Format = "text"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "md"
)

// ParseFormat maps a flag value to a [Format]. Empty input selects [FormatText].
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "text", "txt":
		return FormatText, nil
	case "csv":
		return FormatCSV, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, s)
	}
}

// ExportToCSV converts an Order to CSV format with columns: Flavor, Count
func ExportToCSV(order *models.Order) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"Flavor", "Count"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, item := range order.Items {
		if err := writer.Write([]string{item.Flavor, strconv.Itoa(item.Count)}); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts an Order to a Markdown table
func ExportToMarkdown(order *models.Order) ([]byte, error) {
	var buf bytes.Buffer

	if order.Username != "" {
		buf.WriteString(fmt.Sprintf("# Order for %s\n\n", order.Username))
	} else {
		buf.WriteString("# Order\n\n")
	}

	buf.WriteString(fmt.Sprintf("**Scoops**: %d\n\n", order.Total()))

	buf.WriteString("| Flavor | Count |\n")
	buf.WriteString("| --- | ---: |\n")
	for _, item := range order.Items {
		flavor := strings.ReplaceAll(item.Flavor, "|", "\\|")
		buf.WriteString(fmt.Sprintf("| %s | %d |\n", flavor, item.Count))
	}

	return buf.Bytes(), nil
}

// ExportToText converts an Order to plain text format
func ExportToText(order *models.Order) ([]byte, error) {
	var buf bytes.Buffer

	if order.Username != "" {
		buf.WriteString(fmt.Sprintf("Order: %s\n", order.Username))
	}
	buf.WriteString(fmt.Sprintf("Scoops: %d\n\n", order.Total()))

	for i, item := range order.Items {
		buf.WriteString(fmt.Sprintf("%d. %s x%d\n", i+1, item.Flavor, item.Count))
	}

	return buf.Bytes(), nil
}

// Write renders order in format to w.
func Write(w io.Writer, order *models.Order, format Format) error {
	var (
		data []byte
		err  error
	)

	switch format {
	case FormatCSV:
		data, err = ExportToCSV(order)
	case FormatMarkdown:
		data, err = ExportToMarkdown(order)
	case FormatText:
		data, err = ExportToText(order)
	default:
		return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
	}
	if err != nil {
		return err
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
