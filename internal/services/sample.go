package services

import "vasplink/internal/markers"

// SampleCaseData is the synthetic fixture used by template previews. None of
// the values correspond to a real case, person, or address.
func SampleCaseData() markers.CaseData {
	return markers.CaseData{
		Fields: map[string]string{
			"agencyName":        "Example Federal Agency",
			"agencyAddress":     "100 Main Street, Springfield, ST 00000",
			"agencyContact":     "Records Division",
			"agencyPhone":       "+1 (555) 010-0100",
			"agencyEmail":       "records@agency.example.gov",
			"caseNumber":        "SAMPLE-2024-001",
			"caseType":          "Wire fraud investigation",
			"crimeDescription":  "Suspected fraudulent transfers through a hosted exchange account",
			"statute":           "18 U.S.C. § 1343",
			"investigatorName":  "Alex Morgan",
			"investigatorTitle": "Special Agent",
			"investigatorBadge": "SA-0000",
			"investigatorEmail": "alex.morgan@agency.example.gov",
			"investigatorPhone": "+1 (555) 010-0101",
			"vaspName":          "Example Exchange Ltd.",
			"vaspLegalName":     "Example Exchange Holdings Ltd.",
			"vaspEmail":         "compliance@exchange.example.com",
			"vaspAddress":       "1 Harbour Drive, George Town",
			"signatureBlock":    "Alex Morgan\nSpecial Agent\nExample Federal Agency",
		},
		Transactions: []markers.Transaction{
			{
				ID:          "e3b0c44298fc1c149afbf4c8996fb924",
				Date:        "2024-02-10",
				FromAddress: "1SampleFromAddressAAAAAAAAAAAAAAAA",
				ToAddress:   "1SampleToAddressBBBBBBBBBBBBBBBBBB",
				Amount:      "0.52",
				Currency:    "BTC",
			},
			{
				ID:          "9f86d081884c7d659a2feaa0c55ad015",
				Date:        "2024-02-12",
				FromAddress: "0xSampleFromAddressCCCCCCCCCCCCCC",
				ToAddress:   "0xSampleToAddressDDDDDDDDDDDDDDDD",
				Amount:      "1250.00",
				Currency:    "USDT",
			},
		},
		RequestedInfo: []string{"kyc_info", "transaction_history", "ip_addresses"},
	}
}
