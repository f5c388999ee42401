package markers

// Entry describes one recognized smart marker: the literal token as it appears
// in template content, the camelCase case-data field it resolves from, the
// UPPER_SNAKE_CASE alias accepted in payloads, and a description shown in
// mapping editors.
type Entry struct {
	Token       string `json:"token"`
	FieldKey    string `json:"field_key"`
	Alias       string `json:"alias"`
	Description string `json:"description"`
}

var catalog = []Entry{
	{"{{AGENCY_NAME}}", "agencyName", "AGENCY_NAME", "Requesting agency name"},
	{"{{AGENCY_ADDRESS}}", "agencyAddress", "AGENCY_ADDRESS", "Requesting agency mailing address"},
	{"{{AGENCY_CONTACT}}", "agencyContact", "AGENCY_CONTACT", "Agency point of contact"},
	{"{{AGENCY_PHONE}}", "agencyPhone", "AGENCY_PHONE", "Agency phone number"},
	{"{{AGENCY_EMAIL}}", "agencyEmail", "AGENCY_EMAIL", "Agency email address"},
	{"{{CASE_NUMBER}}", "caseNumber", "CASE_NUMBER", "Case or reference number"},
	{"{{CASE_TYPE}}", "caseType", "CASE_TYPE", "Type of investigation"},
	{"{{CRIME_DESCRIPTION}}", "crimeDescription", "CRIME_DESCRIPTION", "Description of the suspected offense"},
	{"{{STATUTE}}", "statute", "STATUTE", "Statute or legal authority cited"},
	{"{{INVESTIGATOR_NAME}}", "investigatorName", "INVESTIGATOR_NAME", "Investigator full name"},
	{"{{INVESTIGATOR_TITLE}}", "investigatorTitle", "INVESTIGATOR_TITLE", "Investigator title or rank"},
	{"{{INVESTIGATOR_BADGE}}", "investigatorBadge", "INVESTIGATOR_BADGE", "Investigator badge number"},
	{"{{INVESTIGATOR_PHONE}}", "investigatorPhone", "INVESTIGATOR_PHONE", "Investigator phone number"},
	{"{{INVESTIGATOR_EMAIL}}", "investigatorEmail", "INVESTIGATOR_EMAIL", "Investigator email address"},
	{"{{VASP_NAME}}", "vaspName", "VASP_NAME", "VASP common name"},
	{"{{VASP_LEGAL_NAME}}", "vaspLegalName", "VASP_LEGAL_NAME", "VASP registered legal name"},
	{"{{VASP_ADDRESS}}", "vaspAddress", "VASP_ADDRESS", "VASP service-of-process address"},
	{"{{VASP_EMAIL}}", "vaspEmail", "VASP_EMAIL", "VASP compliance email"},
	{"{{DATE_TODAY}}", "dateToday", "DATE_TODAY", "Date the document is generated"},
	{"{{RESPONSE_DEADLINE}}", "responseDeadline", "RESPONSE_DEADLINE", "Requested response deadline (10 days out)"},
	{"{{TRANSACTION_COUNT}}", "transactionCount", "TRANSACTION_COUNT", "Number of listed transactions"},
	{"{{TRANSACTION_LIST}}", "transactionList", "TRANSACTION_LIST", "Numbered list of case transactions"},
	{"{{TRANSACTION_TABLE}}", "transactionTable", "TRANSACTION_TABLE", "Fixed-width table of case transactions"},
	{"{{REQUESTED_INFO_LIST}}", "requestedInfoList", "REQUESTED_INFO_LIST", "Comma-separated requested information categories"},
	{"{{REQUESTED_INFO_CHECKBOXES}}", "requestedInfoCheckboxes", "REQUESTED_INFO_CHECKBOXES", "Checkbox list over all information categories"},
	{"{{SIGNATURE_BLOCK}}", "signatureBlock", "SIGNATURE_BLOCK", "Signature block text"},
	{"{{CUSTOM_FIELD_1}}", "customField1", "CUSTOM_FIELD_1", "Free-form custom field 1"},
	{"{{CUSTOM_FIELD_2}}", "customField2", "CUSTOM_FIELD_2", "Free-form custom field 2"},
	{"{{CUSTOM_FIELD_3}}", "customField3", "CUSTOM_FIELD_3", "Free-form custom field 3"},
}

var catalogByToken = func() map[string]Entry {
	m := make(map[string]Entry, len(catalog))
	for _, e := range catalog {
		m[e.Token] = e
	}
	return m
}()

// Catalog returns every recognized marker in stable order.
func Catalog() []Entry {
	out := make([]Entry, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup returns the catalog entry for a literal token.
func Lookup(token string) (Entry, bool) {
	e, ok := catalogByToken[token]
	return e, ok
}

// IsKnown reports whether a token belongs to the catalog.
func IsKnown(token string) bool {
	_, ok := catalogByToken[token]
	return ok
}
