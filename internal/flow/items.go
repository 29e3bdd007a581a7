package flow

import (
	"regexp"
	"strconv"
	"strings"

	"zapbot/internal/models"
)

// catalogProduct is one sellable item with the substrings that identify
// it in free text.
type catalogProduct struct {
	Name    string
	aliases []string
}

// The fixed product catalog. Aliases are matched case-insensitively as
// substrings; the first product whose alias appears in a segment wins.
var catalog = []catalogProduct{
	{Name: "Rezymol 1250 BSC", aliases: []string{"1250 bsc", "1250"}},
	{Name: "Rezymol 982 NI", aliases: []string{"982 ni", "982"}},
	{Name: "Rezymol 983 FI", aliases: []string{"983 fi", "983"}},
	{Name: "Rezymol 984 RD", aliases: []string{"984 rd", "984"}},
	{Name: "Rezymol 985 AT", aliases: []string{"985 at", "985"}},
	{Name: "Pitty BSC 1100", aliases: []string{"bsc 1100", "1100"}},
	{Name: "Pitty Desincrustante 890", aliases: []string{"desincrustante 890", "desincrustante", "890"}},
}

var quantityPattern = regexp.MustCompile(`(?i)\bx\s*(\d+)\b`)

// ParseItems scans one inbound line for known products. Segments are
// separated by comma or semicolon; a trailing "x<digits>" token sets the
// quantity, defaulting to 1 when absent. Unrecognized segments are
// skipped silently.
func ParseItems(line string) []models.CartItem {
	var items []models.CartItem

	for _, segment := range splitSegments(line) {
		lower := strings.ToLower(segment)

		product := matchProduct(lower)
		if product == "" {
			continue
		}

		quantity := 1
		if m := quantityPattern.FindStringSubmatch(lower); len(m) == 2 {
			if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
				quantity = n
			}
		}

		items = append(items, models.CartItem{Product: product, Quantity: quantity})
	}

	return items
}

func splitSegments(line string) []string {
	segments := strings.FieldsFunc(line, func(r rune) bool {
		return r == ',' || r == ';'
	})
	out := make([]string, 0, len(segments))
	for _, s := range segments {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func matchProduct(lower string) string {
	for _, p := range catalog {
		for _, alias := range p.aliases {
			if strings.Contains(lower, alias) {
				return p.Name
			}
		}
	}
	return ""
}
