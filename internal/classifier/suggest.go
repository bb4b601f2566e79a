package classifier

import (
	"sort"
	"strings"

	"fjacquet/statement-report/internal/models"
)

// headerKeywords maps lower-cased header fragments to the singleton role
// they usually denote in German, French and English bank exports.
var headerKeywords = []struct {
	kind     models.RoleKind
	keywords []string
}{
	{models.RolePaymentRecipient, []string{"empfänger", "empfaenger", "zahlungsempfänger", "auftraggeber", "bénéficiaire", "beneficiaire", "recipient", "payee", "payer", "name"}},
	{models.RolePaymentDate, []string{"buchungstag", "buchungsdatum", "datum", "date", "valuta"}},
	{models.RolePaymentAmount, []string{"betrag", "montant", "amount", "umsatz"}},
}

// Suggest proposes a role for every column of table from its header. Each
// singleton role is proposed for the first matching column only; other
// headed columns are proposed as CommonInfo labelled with their header.
// Columns without a header get no proposal. Suggestions are never applied
// implicitly; pass them to Classifier.Apply to use them.
func Suggest(table models.Table) map[int]models.ColumnRole {
	out := make(map[int]models.ColumnRole)
	taken := make(map[models.RoleKind]bool)

	indices := make([]int, 0, len(table.Columns))
	for _, col := range table.Columns {
		indices = append(indices, col.Index)
	}
	sort.Ints(indices)

	for _, i := range indices {
		header := table.Header(i)
		if header == "" {
			continue
		}
		if kind, ok := matchHeader(header); ok && !taken[kind] {
			taken[kind] = true
			out[i] = models.ColumnRole{Kind: kind}
			continue
		}
		out[i] = models.CommonInfo(header)
	}
	return out
}

func matchHeader(header string) (models.RoleKind, bool) {
	h := strings.ToLower(strings.TrimSpace(header))
	for _, entry := range headerKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(h, kw) {
				return entry.kind, true
			}
		}
	}
	return models.RoleUnset, false
}
