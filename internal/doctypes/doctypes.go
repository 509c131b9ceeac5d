// Package doctypes classifies uploaded documents into the fixed tender taxonomy.
package doctypes

import (
	"regexp"
	"strings"
)

// Type identifies the fine-grained kind of an uploaded document.
type Type string

const (
	// Company data
	TypeCompanyProfile      Type = "company_profile"
	TypePriceTable          Type = "price_table"
	TypeCalculationMethod   Type = "calculation_method"
	TypeCertifications      Type = "certifications"
	TypeTeamCVs             Type = "team_cvs"
	TypeProjectPortfolio    Type = "project_portfolio"
	TypeFinancialStatements Type = "financial_statements"

	// Tender documents
	TypeTenderDocument   Type = "tender_document"
	TypeTechnicalSpecs   Type = "technical_specifications"
	TypeFormularioA1     Type = "formulario_a1_identificacion"
	TypeFormularioA3     Type = "formulario_a3_propuesta_economica"
	TypeFormularioA4     Type = "formulario_a4_modelo_precios"
	TypeFormularioB2     Type = "formulario_b2_experiencia_especifica"
	TypeFormularioB3     Type = "formulario_b3_experiencia_general"
	TypeAnexo1           Type = "anexo_1_especificaciones"
	TypeBillOfQuantities Type = "bill_of_quantities"

	// Proposal examples
	TypePreviousProposal Type = "previous_proposal"
	TypeWinningProposal  Type = "winning_proposal"

	TypeOther Type = "other"
)

// Category groups types for UI display and prompt assembly.
type Category string

const (
	CategoryCompanyData      Category = "company_data"
	CategoryTenderDocuments  Category = "tender_documents"
	CategoryProposalExamples Category = "proposal_examples"
	CategoryOther            Category = "other"
)

// Priority hints how aggressively a document's content should be mined.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Info describes a document type for consumers outside the classifier.
type Info struct {
	Type        Type     `json:"type"`
	Label       string   `json:"label"`
	Category    Category `json:"category"`
	Description string   `json:"description"`
	Priority    Priority `json:"extractionPriority"`
}

// contentSampleLimit bounds how much extracted text the content probes see.
const contentSampleLimit = 5000

// formRule matches a RUPE form family against a filename.
type formRule struct {
	pattern *regexp.Regexp
	typ     Type
}

// Filename rules are ordered; the first match wins. Separators between the
// family letter and variant number may be underscore, dash, or space.
var filenameFormRules = []formRule{
	{regexp.MustCompile(`(?i)formulario[_\s-]*a[_\s-]*1`), TypeFormularioA1},
	{regexp.MustCompile(`(?i)formulario[_\s-]*a[_\s-]*3`), TypeFormularioA3},
	{regexp.MustCompile(`(?i)formulario[_\s-]*a[_\s-]*4`), TypeFormularioA4},
	{regexp.MustCompile(`(?i)formulario[_\s-]*b[_\s-]*2`), TypeFormularioB2},
	{regexp.MustCompile(`(?i)formulario[_\s-]*b[_\s-]*3`), TypeFormularioB3},
	{regexp.MustCompile(`(?i)anexo[_\s-]*1`), TypeAnexo1},
}

// contentFormRules probe characteristic phrases of each form family.
var contentFormRules = []struct {
	phrase string
	typ    Type
}{
	{"identificación del oferente", TypeFormularioA1},
	{"propuesta económica", TypeFormularioA3},
	{"modelo indicativo de precios", TypeFormularioA4},
	{"experiencia específica", TypeFormularioB2},
	{"experiencia general", TypeFormularioB3},
}

// keywordRules is the secondary filename pass, checked after form rules.
var keywordRules = []struct {
	keywords []string
	typ      Type
}{
	{[]string{"price", "precio"}, TypePriceTable},
	{[]string{"cv", "resume", "curricul"}, TypeTeamCVs},
	{[]string{"project", "proyecto", "portfolio", "portafolio"}, TypeProjectPortfolio},
	{[]string{"certification", "certificación"}, TypeCertifications},
	{[]string{"proposal", "propuesta"}, TypePreviousProposal},
	{[]string{"specification", "especificación"}, TypeTechnicalSpecs},
	{[]string{"tender", "licitación", "rfp", "dcd"}, TypeTenderDocument},
}

// Classify maps a filename and a content sample to a document type.
// It is pure and total: every input yields a value, defaulting to TypeOther.
func Classify(filename, content string) Type {
	lowerName := strings.ToLower(filename)
	lowerContent := strings.ToLower(content)
	if len(lowerContent) > contentSampleLimit {
		lowerContent = lowerContent[:contentSampleLimit]
	}

	for _, rule := range filenameFormRules {
		if rule.pattern.MatchString(lowerName) {
			return rule.typ
		}
	}

	for _, rule := range contentFormRules {
		if strings.Contains(lowerContent, rule.phrase) {
			return rule.typ
		}
	}

	for _, rule := range keywordRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lowerName, kw) {
				return rule.typ
			}
		}
	}

	return TypeOther
}

// Valid reports whether t is a known document type.
func Valid(t Type) bool {
	_, ok := Registry[t]
	return ok
}
