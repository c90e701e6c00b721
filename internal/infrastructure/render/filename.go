// Package render turns assembled fiscal documents into the files handed to
// the downstream accounting software: invoices and receipts as XML,
// production sheets as CSV.
package render

import (
	"fmt"
	"strings"
)

// exportFileName builds the conventional export name, embedding the batch
// sequence as `_<n>_`: e.g. "facturi_20260209_3_export.xml".
func exportFileName(prefix, date string, seq int, ext string) string {
	return fmt.Sprintf("%s_%s_%d_export.%s", prefix, strings.ReplaceAll(date, "-", ""), seq, ext)
}
