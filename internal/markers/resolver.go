package markers

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Transaction is one virtual-asset transfer attached to a case.
type Transaction struct {
	ID          string `json:"id"`
	Date        string `json:"date"`
	FromAddress string `json:"from_address"`
	ToAddress   string `json:"to_address"`
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
}

// CaseData is the generation-time payload. Fields holds flat named values
// (camelCase keys; UPPER_SNAKE_CASE aliases are accepted too), Transactions
// an ordered list of transfers, and RequestedInfo the information-category
// keys the request asks the VASP for.
type CaseData struct {
	Fields        map[string]string `json:"fields"`
	Transactions  []Transaction     `json:"transactions"`
	RequestedInfo []string          `json:"requested_info"`
}

// InfoCategory is one requestable information category.
type InfoCategory struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// The fixed catalog of requestable information categories, in output order.
var infoCategories = []InfoCategory{
	{"kyc_info", "KYC information"},
	{"transaction_history", "Transaction history"},
	{"ip_addresses", "IP addresses"},
	{"device_info", "Device information"},
	{"account_activity", "Account activity"},
	{"linked_accounts", "Linked accounts"},
	{"source_of_funds", "Source of funds"},
	{"communications", "Communications"},
}

// RequestedInfoCategories returns the fixed category catalog in output order.
func RequestedInfoCategories() []InfoCategory {
	out := make([]InfoCategory, len(infoCategories))
	copy(out, infoCategories)
	return out
}

const (
	noTransactionsMessage  = "No transactions provided"
	noRequestedInfoMessage = "No specific information requested"

	longDateLayout  = "January 2, 2006"
	responseDueDays = 10
	addressColWidth = 10
)

// Resolve computes the substitution value for every catalog marker plus any
// custom markers named in mapping. Resolution is total: each returned key maps
// to some string, possibly empty, so a recognized marker never survives a
// render as its literal token.
//
// Precedence per marker: the mapped case-data field (camelCase key first,
// then the UPPER_SNAKE_CASE alias), then the computed default for derived
// markers, then the empty string.
func Resolve(data CaseData, mapping map[string]string, now time.Time) map[string]string {
	resolved := make(map[string]string, len(catalog)+len(mapping))

	for _, entry := range catalog {
		field := entry.FieldKey
		if mapped, ok := mapping[entry.Token]; ok && mapped != "" {
			field = mapped
		}

		value := lookupField(data.Fields, field)
		if value == "" && field != entry.FieldKey {
			// A mapped field with no data still falls back to the
			// marker's own field before any computed default.
			value = lookupField(data.Fields, entry.FieldKey)
		}
		if value == "" {
			value = computedDefault(entry.FieldKey, data, now)
		}
		resolved[entry.Token] = value
	}

	for token, field := range mapping {
		if IsKnown(token) {
			continue
		}
		resolved[token] = lookupField(data.Fields, field)
	}

	return resolved
}

// TransactionFields returns the per-transaction substitution values used
// inside repeated transaction blocks.
func TransactionFields(tx Transaction, index int) map[string]string {
	return map[string]string{
		"{{TX_INDEX}}":    strconv.Itoa(index + 1),
		"{{TX_ID}}":       tx.ID,
		"{{TX_DATE}}":     tx.Date,
		"{{TX_FROM}}":     tx.FromAddress,
		"{{TX_TO}}":       tx.ToAddress,
		"{{TX_AMOUNT}}":   tx.Amount,
		"{{TX_CURRENCY}}": tx.Currency,
	}
}

func lookupField(fields map[string]string, key string) string {
	if len(fields) == 0 || key == "" {
		return ""
	}
	// camelCase first, then the UPPER_SNAKE_CASE alias; first match wins.
	if v, ok := fields[key]; ok && v != "" {
		return v
	}
	if v, ok := fields[toUpperSnake(key)]; ok && v != "" {
		return v
	}
	return ""
}

func computedDefault(fieldKey string, data CaseData, now time.Time) string {
	switch fieldKey {
	case "dateToday":
		return now.Format(longDateLayout)
	case "responseDeadline":
		return now.AddDate(0, 0, responseDueDays).Format(longDateLayout)
	case "transactionCount":
		return strconv.Itoa(len(data.Transactions))
	case "transactionList":
		return FormatTransactionList(data.Transactions)
	case "transactionTable":
		return FormatTransactionTable(data.Transactions)
	case "requestedInfoList":
		return FormatRequestedInfoList(data.RequestedInfo)
	case "requestedInfoCheckboxes":
		return FormatRequestedInfoCheckboxes(data.RequestedInfo)
	default:
		return ""
	}
}

// FormatTransactionList renders transactions as a 1-indexed numbered list.
func FormatTransactionList(txs []Transaction) string {
	if len(txs) == 0 {
		return noTransactionsMessage
	}

	lines := make([]string, 0, len(txs))
	for i, tx := range txs {
		lines = append(lines, fmt.Sprintf("%d. Transaction %s on %s - Amount: %s %s",
			i+1, tx.ID, tx.Date, tx.Amount, tx.Currency))
	}
	return strings.Join(lines, "\n")
}

// FormatTransactionTable renders transactions as a fixed-width text table.
// Identifiers and addresses are truncated to ten characters so the columns
// stay aligned in monospaced output.
func FormatTransactionTable(txs []Transaction) string {
	if len(txs) == 0 {
		return noTransactionsMessage
	}

	var b strings.Builder
	header := fmt.Sprintf("%-12s %-12s %-20s %-12s %-12s", "ID", "Date", "Amount", "From", "To")
	b.WriteString(header)
	b.WriteString("\n")
	b.WriteString(strings.Repeat("-", len(header)))
	for _, tx := range txs {
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("%-12s %-12s %-20s %-12s %-12s",
			truncate(tx.ID, addressColWidth),
			tx.Date,
			strings.TrimSpace(tx.Amount+" "+tx.Currency),
			truncate(tx.FromAddress, addressColWidth),
			truncate(tx.ToAddress, addressColWidth)))
	}
	return b.String()
}

// FormatRequestedInfoList renders the requested categories as a comma-joined
// list of human labels. Unknown keys pass through unchanged.
func FormatRequestedInfoList(keys []string) string {
	if len(keys) == 0 {
		return noRequestedInfoMessage
	}

	labels := make([]string, 0, len(keys))
	for _, key := range keys {
		labels = append(labels, infoLabel(key))
	}
	return strings.Join(labels, ", ")
}

// FormatRequestedInfoCheckboxes renders one line per known category, always
// all eight, checked when the category is in the requested set.
func FormatRequestedInfoCheckboxes(keys []string) string {
	requested := make(map[string]bool, len(keys))
	for _, key := range keys {
		requested[key] = true
	}

	lines := make([]string, 0, len(infoCategories))
	for _, cat := range infoCategories {
		box := "[ ]"
		if requested[cat.Key] {
			box = "[X]"
		}
		lines = append(lines, box+" "+cat.Label)
	}
	return strings.Join(lines, "\n")
}

func infoLabel(key string) string {
	for _, cat := range infoCategories {
		if cat.Key == key {
			return cat.Label
		}
	}
	return key
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func toUpperSnake(camel string) string {
	var b strings.Builder
	for i, r := range camel {
		if i > 0 {
			prev := rune(camel[i-1])
			startsUpper := r >= 'A' && r <= 'Z' && (prev < 'A' || prev > 'Z')
			startsDigit := r >= '0' && r <= '9' && (prev < '0' || prev > '9')
			if startsUpper || startsDigit {
				b.WriteByte('_')
			}
		}
		b.WriteRune(r)
	}
	return strings.ToUpper(b.String())
}
