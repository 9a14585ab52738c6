package elements

import "sort"

// CodeTable is a read-only code to description mapping.
type CodeTable struct {
	entries map[string]string
}

// NewCodeTable copies entries into a new table.
func NewCodeTable(entries map[string]string) CodeTable {
	m := make(map[string]string, len(entries))
	for k, v := range entries {
		m[k] = v
	}
	return CodeTable{entries: m}
}

// Lookup returns the description of code.
func (t CodeTable) Lookup(code string) (string, bool) {
	description, ok := t.entries[code]
	return description, ok
}

// Len returns the number of codes in the table.
func (t CodeTable) Len() int {
	return len(t.entries)
}

// Codes returns the table's codes in sorted order.
func (t CodeTable) Codes() []string {
	codes := make([]string, 0, len(t.entries))
	for code := range t.entries {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Merge returns a new table holding t's entries overridden by overrides.
func (t CodeTable) Merge(overrides map[string]string) CodeTable {
	m := make(map[string]string, len(t.entries)+len(overrides))
	for k, v := range t.entries {
		m[k] = v
	}
	for k, v := range overrides {
		m[k] = v
	}
	return CodeTable{entries: m}
}

// Table names, as used in code override files.
const (
	TableAdjustmentGroup     = "adjustment_group"
	TableAdjustmentReason    = "adjustment_reason"
	TableAmountQualifier     = "amount_qualifier"
	TableClaimFiling         = "claim_filing_indicator"
	TableClaimStatus         = "claim_status"
	TableContactFunction     = "contact_function"
	TableCreditDebit         = "credit_debit"
	TableDateQualifier       = "date_qualifier"
	TableEntityCode          = "entity_code"
	TableEntityType          = "entity_type"
	TableIDQualifier         = "identification_qualifier"
	TableOrganizationType    = "organization_type"
	TablePaymentMethod       = "payment_method"
	TableQuantityQualifier   = "quantity_qualifier"
	TableReferenceQualifier  = "reference_qualifier"
	TableRemarkCode          = "remark_code"
	TableRemarkQualifier     = "remark_qualifier"
	TableServiceQualifier    = "service_qualifier"
	TableTransactionHandling = "transaction_handling"
	TableUsageIndicator      = "usage_indicator"
)

// Tables bundles every code table the segment decoders use.
type Tables struct {
	tables map[string]CodeTable
}

// Get returns the named table; unknown names yield an empty table.
func (t *Tables) Get(name string) CodeTable {
	if t == nil {
		return CodeTable{}
	}
	return t.tables[name]
}

// Names returns the table names in sorted order.
func (t *Tables) Names() []string {
	names := make([]string, 0, len(t.tables))
	for name := range t.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WithOverrides returns a copy of t where each named table is merged with its overrides.
// Overrides for unknown table names create new tables.
func (t *Tables) WithOverrides(overrides map[string]map[string]string) *Tables {
	merged := make(map[string]CodeTable, len(t.tables)+len(overrides))
	for name, table := range t.tables {
		merged[name] = table
	}
	for name, entries := range overrides {
		merged[name] = merged[name].Merge(entries)
	}
	return &Tables{tables: merged}
}

// DefaultTables builds the built-in code tables.
// https://x12.org/codes
func DefaultTables() *Tables {
	return &Tables{tables: map[string]CodeTable{
		TableAdjustmentGroup: NewCodeTable(map[string]string{
			"CO": "contractual obligation",
			"CR": "corrections and reversals",
			"OA": "other adjustment",
			"PI": "payor initiated reduction",
			"PR": "patient responsibility",
		}),
		TableAdjustmentReason: NewCodeTable(map[string]string{
			"1":   "deductible amount",
			"2":   "coinsurance amount",
			"3":   "co-payment amount",
			"4":   "procedure code inconsistent with modifier",
			"16":  "claim lacks information needed for adjudication",
			"18":  "exact duplicate claim/service",
			"23":  "impact of prior payer adjudication",
			"29":  "time limit for filing has expired",
			"45":  "charge exceeds fee schedule/maximum allowable",
			"50":  "non-covered service, not deemed a medical necessity",
			"96":  "non-covered charge",
			"97":  "benefit included in payment for another service",
			"119": "benefit maximum for this time period has been reached",
			"197": "precertification/authorization absent",
			"204": "service not covered under current benefit plan",
			"253": "sequestration - reduction in federal payment",
		}),
		TableAmountQualifier: NewCodeTable(map[string]string{
			"AU": "coverage amount",
			"B6": "allowed - actual",
			"D8": "discount amount",
			"DY": "per day limit",
			"F5": "patient amount paid",
			"I":  "interest",
			"KH": "deduction amount",
			"NL": "negative ledger balance",
			"T":  "tax",
			"T2": "total claim before taxes",
			"ZK": "federal medicare or medicaid payment mandate category 1",
		}),
		TableClaimFiling: NewCodeTable(map[string]string{
			"12": "preferred provider organization",
			"13": "point of service",
			"14": "exclusive provider organization",
			"15": "indemnity insurance",
			"16": "health maintenance organization medicare risk",
			"AM": "automobile medical",
			"CH": "champus",
			"DS": "disability",
			"HM": "health maintenance organization",
			"LM": "liability medical",
			"MA": "medicare part a",
			"MB": "medicare part b",
			"MC": "medicaid",
			"OF": "other federal program",
			"TV": "title v",
			"VA": "veterans affairs plan",
			"WC": "workers compensation health claim",
		}),
		TableClaimStatus: NewCodeTable(map[string]string{
			"1":  "processed as primary",
			"2":  "processed as secondary",
			"3":  "processed as tertiary",
			"4":  "denied",
			"19": "processed as primary, forwarded to additional payer(s)",
			"20": "processed as secondary, forwarded to additional payer(s)",
			"21": "processed as tertiary, forwarded to additional payer(s)",
			"22": "reversal of previous payment",
			"23": "not our claim, forwarded to additional payer(s)",
			"25": "predetermination pricing only - no payment",
		}),
		TableContactFunction: NewCodeTable(map[string]string{
			"BL": "technical department",
			"CX": "payer claims contact",
			"IC": "information contact",
		}),
		TableCreditDebit: NewCodeTable(map[string]string{
			"C": "credit",
			"D": "debit",
		}),
		TableDateQualifier: NewCodeTable(map[string]string{
			"036": "expiration",
			"050": "received",
			"150": "service period start",
			"151": "service period end",
			"232": "claim statement period start",
			"233": "claim statement period end",
			"405": "production",
			"472": "service",
		}),
		TableEntityCode: NewCodeTable(map[string]string{
			"74": "corrected insured",
			"77": "service location",
			"82": "rendering provider",
			"DN": "referring provider",
			"FA": "facility",
			"GB": "other insured",
			"IL": "insured",
			"PE": "payee",
			"PR": "payer",
			"QC": "patient",
			"TT": "crossover carrier",
		}),
		TableEntityType: NewCodeTable(map[string]string{
			"1": "individual",
			"2": "non-person entity",
		}),
		TableIDQualifier: NewCodeTable(map[string]string{
			"34": "social security number",
			"BD": "blue cross provider number",
			"BS": "blue shield provider number",
			"FI": "federal taxpayer identification number",
			"HN": "health insurance claim number",
			"II": "standard unique health identifier",
			"MC": "medicaid recipient identification number",
			"MI": "member identification number",
			"MR": "medicaid recipient identification number",
			"PC": "provider commercial number",
			"XV": "centers for medicare and medicaid services plan id",
			"XX": "national provider identifier",
			"ZZ": "mutually defined",
		}),
		TableOrganizationType: NewCodeTable(map[string]string{
			"PE": "payee",
			"PR": "payer",
		}),
		TablePaymentMethod: NewCodeTable(map[string]string{
			"ACH": "automatic deposit",
			"BOP": "financial institution option",
			"CHK": "check",
			"FWT": "federal reserve funds wire transfer",
			"NON": "no payment",
		}),
		TableQuantityQualifier: NewCodeTable(map[string]string{
			"CA": "covered - actual",
			"CD": "co-insured - actual",
			"LA": "life-time reserve - actual",
			"NA": "number of non-covered days",
			"NE": "non-covered - estimated",
			"NR": "not replaced blood units",
			"OU": "outlier days",
			"PS": "prescription",
			"VS": "visits",
			"ZK": "federal medicare or medicaid payment mandate category 1",
		}),
		TableReferenceQualifier: NewCodeTable(map[string]string{
			"0K": "policy form identifying number",
			"1A": "blue cross provider number",
			"1B": "blue shield provider number",
			"1C": "medicare provider number",
			"1D": "medicaid provider number",
			"1G": "provider upin number",
			"1H": "champus identification number",
			"1L": "group or policy number",
			"1S": "ambulatory patient group number",
			"1W": "member identification number",
			"28": "employee identification number",
			"2U": "payer identification number",
			"6P": "group number",
			"6R": "provider control number",
			"9A": "repriced claim reference number",
			"9C": "adjusted repriced claim reference number",
			"APC": "ambulatory payment classification",
			"BB": "authorization number",
			"CE": "class of contract code",
			"D3": "national council for prescription drug programs pharmacy number",
			"EA": "medical record identification number",
			"EV": "receiver identification number",
			"F8": "original reference number",
			"G1": "prior authorization number",
			"G3": "predetermination of benefits identification number",
			"HPI": "centers for medicare and medicaid services national provider identifier",
			"IG": "insurance policy number",
			"LU": "location number",
			"NQ": "medicaid provider number",
			"PQ": "payee identification",
			"RB": "rate code number",
			"SY": "social security number",
			"TJ": "federal taxpayer identification number",
		}),
		TableRemarkCode: NewCodeTable(map[string]string{
			"M15":  "separately billed services/tests have been bundled",
			"M80":  "not covered when performed during the same session as another approved procedure",
			"MA01": "alert: if you do not agree with what we approved, you may appeal",
			"MA130": "claim contains incomplete and/or invalid information; no appeal rights",
			"N130": "consult plan benefit documents/guidelines for information about restrictions",
			"N381": "consult our contractual agreement for restrictions/billing/payment information",
			"N522": "duplicate of a claim processed, or to be processed, as a crossover claim",
		}),
		TableRemarkQualifier: NewCodeTable(map[string]string{
			"HE": "claim payment remark codes",
			"RX": "national council for prescription drug programs reject/payment codes",
		}),
		TableServiceQualifier: NewCodeTable(map[string]string{
			"AD": "american dental association",
			"ER": "jurisdiction specific procedure or supply codes",
			"HC": "health care financing administration common procedural coding system",
			"HP": "health insurance prospective payment system",
			"IV": "home infusion edi coalition product/service code",
			"N4": "national drug code in 5-4-2 format",
			"NU": "national uniform billing committee revenue code",
			"WK": "advanced billing concepts code",
		}),
		TableTransactionHandling: NewCodeTable(map[string]string{
			"C": "payment accompanies remittance advice",
			"D": "make payment only",
			"H": "notification only",
			"I": "remittance information only",
			"P": "prenotification of future transfers",
			"U": "split payment and remittance",
			"X": "handling party's option to split payment and remittance",
		}),
		TableUsageIndicator: NewCodeTable(map[string]string{
			"I": "information",
			"P": "production",
			"T": "test",
		}),
	}}
}
