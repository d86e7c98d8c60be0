// Package sequence derives human-readable document numbers such as JE-0001
// and INV-0042. Persistent allocation goes through a per-company counter row
// (see document_sequences); Next exists as the formatting contract and for
// repositories that only know the last issued number.
package sequence

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	// PrefixJournal numbers journal entries.
	PrefixJournal = "JE"
	// PrefixInvoice numbers invoices.
	PrefixInvoice = "INV"
)

var numberPattern = regexp.MustCompile(`^([A-Z]+)-(\d+)$`)

// Format renders a document number with the standard zero padding. Values
// past 9999 grow beyond four digits naturally.
func Format(prefix string, n int64) string {
	return fmt.Sprintf("%s-%04d", prefix, n)
}

// Next derives the number following last for the given prefix. An empty or
// malformed last value, or one carrying a different prefix, restarts the
// sequence at {PREFIX}-0001.
func Next(prefix, last string) string {
	if last == "" {
		return Format(prefix, 1)
	}
	m := numberPattern.FindStringSubmatch(strings.TrimSpace(last))
	if m == nil || m[1] != prefix {
		return Format(prefix, 1)
	}
	n, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return Format(prefix, 1)
	}
	return Format(prefix, n+1)
}
