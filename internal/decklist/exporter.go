// Package decklist renders a session deck as a shareable text list.
package decklist

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/ramonehamilton/chaos-zero-companion/internal/deck"
)

// ExportFormat represents the format to export the deck in.
type ExportFormat string

const (
	FormatPlain    ExportFormat = "plain"    // "2x Card Name" lines only
	FormatDetailed ExportFormat = "detailed" // per-line PT plus a # summary footer
)

// ParseFormat maps a query value to a format. Empty means plain.
func ParseFormat(s string) (ExportFormat, error) {
	switch ExportFormat(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatPlain:
		return FormatPlain, nil
	case FormatDetailed:
		return FormatDetailed, nil
	}
	return "", fmt.Errorf("unsupported export format: %s", s)
}

// Deck is everything the exporter needs to know about a session deck.
type Deck struct {
	Name    string // usually the character name
	Entries []deck.Entry
	Summary deck.Summary
	Rules   deck.Rules
}

// DeckExport represents an exported deck.
type DeckExport struct {
	Content  string       `json:"content"`
	Format   ExportFormat `json:"format"`
	Filename string       `json:"filename"`
}

// Export renders d in format.
func Export(d Deck, format ExportFormat) (*DeckExport, error) {
	var content string
	switch format {
	case FormatPlain:
		content = exportPlain(d)
	case FormatDetailed:
		content = exportDetailed(d)
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}

	return &DeckExport{
		Content:  content,
		Format:   format,
		Filename: fmt.Sprintf("%s.txt", sanitizeFilename(d.Name)),
	}, nil
}

// exportPlain writes one "Nx Card Name" line per entry.
func exportPlain(d Deck) string {
	var sb strings.Builder
	for _, e := range d.Entries {
		fmt.Fprintf(&sb, "%dx %s\n", e.Quantity, e.Card.Name)
	}
	return sb.String()
}

// exportDetailed adds category, modifiers and PT to every line and closes
// with the deck summary as # comments.
func exportDetailed(d Deck) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "// %s\n", d.Name)
	fmt.Fprintf(&sb, "// Tier %d (ceiling %d PT)\n\n", d.Summary.TierLevel, d.Summary.TierCeiling)

	for _, e := range d.Entries {
		pt := d.Rules.CardBasePT(e.Card)
		line := fmt.Sprintf("%dx %s [%s", e.Quantity, e.Card.Name, e.Card.Category.OrDefault())
		if e.Card.Modifiers != 0 {
			line += ", " + strings.Join(e.Card.Modifiers.Names(), ", ")
		}
		line += fmt.Sprintf("] %d PT", pt*e.Quantity)
		if e.Quantity > 1 {
			line += fmt.Sprintf(" (%d each)", pt)
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	s := d.Summary
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "# Cards: %d\n", s.TotalCards)
	fmt.Fprintf(&sb, "# Acquisition: %d PT\n", s.AcquisitionPT)
	fmt.Fprintf(&sb, "# Duplication: %d PT (%d duplicates)\n", s.DuplicationPT, s.Metadata.DuplicateCount)
	fmt.Fprintf(&sb, "# Removal: %d PT (%d removals)\n", s.RemovalPT, s.Metadata.RemoveCount)
	fmt.Fprintf(&sb, "# Total: %d / %d PT\n", s.TotalPT, s.TierCeiling)
	if s.OverBudget {
		fmt.Fprintf(&sb, "# Over budget by %d PT\n", s.OverBudgetBy)
	} else {
		fmt.Fprintf(&sb, "# Margin: %d PT\n", s.MarginRemaining)
	}

	categories := make([]string, 0, len(s.CategoryStats))
	for c := range s.CategoryStats {
		categories = append(categories, string(c))
	}
	sort.Strings(categories)
	for _, c := range categories {
		stat := s.CategoryStats[deck.Category(c)]
		fmt.Fprintf(&sb, "# %s: %d cards, %d PT\n", c, stat.Count, stat.PT)
	}

	return sb.String()
}

// sanitizeFilename removes invalid characters from filename.
func sanitizeFilename(name string) string {
	invalid := []string{"/", "\\", ":", "*", "?", "\"", "<", ">", "|"}
	result := name
	for _, char := range invalid {
		result = strings.ReplaceAll(result, char, "_")
	}
	result = strings.TrimSpace(result)
	if utf8.RuneCountInString(result) > 100 {
		result = string([]rune(result)[:100])
	}
	if result == "" {
		result = "deck"
	}
	return result
}
