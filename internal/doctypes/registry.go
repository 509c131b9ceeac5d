package doctypes

// Registry describes every document type for UI display and prompt assembly.
// The classifier itself never consults it.
var Registry = map[Type]Info{
	TypeCompanyProfile: {
		Type:        TypeCompanyProfile,
		Label:       "Company Profile",
		Category:    CategoryCompanyData,
		Description: "General company information, history, and capabilities",
		Priority:    PriorityHigh,
	},
	TypePriceTable: {
		Type:        TypePriceTable,
		Label:       "Price Table / Rate Card",
		Category:    CategoryCompanyData,
		Description: "Pricing information for services, materials, or labor",
		Priority:    PriorityHigh,
	},
	TypeCalculationMethod: {
		Type:        TypeCalculationMethod,
		Label:       "Calculation Methodology",
		Category:    CategoryCompanyData,
		Description: "Methods and formulas for cost calculations",
		Priority:    PriorityMedium,
	},
	TypeCertifications: {
		Type:        TypeCertifications,
		Label:       "Certifications",
		Category:    CategoryCompanyData,
		Description: "Company certifications, licenses, and accreditations",
		Priority:    PriorityMedium,
	},
	TypeTeamCVs: {
		Type:        TypeTeamCVs,
		Label:       "Team CVs",
		Category:    CategoryCompanyData,
		Description: "Curriculum vitae of team members",
		Priority:    PriorityMedium,
	},
	TypeProjectPortfolio: {
		Type:        TypeProjectPortfolio,
		Label:       "Project Portfolio",
		Category:    CategoryCompanyData,
		Description: "Past projects, case studies, and references",
		Priority:    PriorityHigh,
	},
	TypeFinancialStatements: {
		Type:        TypeFinancialStatements,
		Label:       "Financial Statements",
		Category:    CategoryCompanyData,
		Description: "Balance sheets, income statements, financial reports",
		Priority:    PriorityLow,
	},
	TypeTenderDocument: {
		Type:        TypeTenderDocument,
		Label:       "Tender Document (DCD/RFP)",
		Category:    CategoryTenderDocuments,
		Description: "Main tender or RFP document with requirements",
		Priority:    PriorityHigh,
	},
	TypeTechnicalSpecs: {
		Type:        TypeTechnicalSpecs,
		Label:       "Technical Specifications",
		Category:    CategoryTenderDocuments,
		Description: "Detailed technical requirements and specifications",
		Priority:    PriorityHigh,
	},
	TypeFormularioA1: {
		Type:        TypeFormularioA1,
		Label:       "Formulario A-1 (Identificación)",
		Category:    CategoryTenderDocuments,
		Description: "RUPE Form A-1: Bidder identification and declarations",
		Priority:    PriorityHigh,
	},
	TypeFormularioA3: {
		Type:        TypeFormularioA3,
		Label:       "Formulario A-3 (Propuesta Económica)",
		Category:    CategoryTenderDocuments,
		Description: "RUPE Form A-3: Economic proposal",
		Priority:    PriorityHigh,
	},
	TypeFormularioA4: {
		Type:        TypeFormularioA4,
		Label:       "Formulario A-4 (Modelo de Precios)",
		Category:    CategoryTenderDocuments,
		Description: "RUPE Form A-4: Indicative price model with cost breakdown",
		Priority:    PriorityHigh,
	},
	TypeFormularioB2: {
		Type:        TypeFormularioB2,
		Label:       "Formulario B-2 (Experiencia Específica)",
		Category:    CategoryTenderDocuments,
		Description: "RUPE Form B-2: Specific experience",
		Priority:    PriorityMedium,
	},
	TypeFormularioB3: {
		Type:        TypeFormularioB3,
		Label:       "Formulario B-3 (Experiencia General)",
		Category:    CategoryTenderDocuments,
		Description: "RUPE Form B-3: General experience",
		Priority:    PriorityMedium,
	},
	TypeAnexo1: {
		Type:        TypeAnexo1,
		Label:       "Anexo 1 (Especificaciones Técnicas)",
		Category:    CategoryTenderDocuments,
		Description: "RUPE Annex 1: Technical specifications for services",
		Priority:    PriorityHigh,
	},
	TypeBillOfQuantities: {
		Type:        TypeBillOfQuantities,
		Label:       "Bill of Quantities (BOQ)",
		Category:    CategoryTenderDocuments,
		Description: "Detailed list of materials and quantities",
		Priority:    PriorityHigh,
	},
	TypePreviousProposal: {
		Type:        TypePreviousProposal,
		Label:       "Previous Proposal",
		Category:    CategoryProposalExamples,
		Description: "Previously submitted proposal (won or lost)",
		Priority:    PriorityHigh,
	},
	TypeWinningProposal: {
		Type:        TypeWinningProposal,
		Label:       "Winning Proposal",
		Category:    CategoryProposalExamples,
		Description: "A proposal that successfully won a tender",
		Priority:    PriorityHigh,
	},
	TypeOther: {
		Type:        TypeOther,
		Label:       "Other Document",
		Category:    CategoryOther,
		Description: "Miscellaneous document",
		Priority:    PriorityLow,
	},
}

// ByCategory groups the registry for UI display, preserving a stable category order.
func ByCategory() map[Category][]Info {
	grouped := map[Category][]Info{
		CategoryCompanyData:      {},
		CategoryTenderDocuments:  {},
		CategoryProposalExamples: {},
		CategoryOther:            {},
	}
	for _, t := range orderedTypes {
		info := Registry[t]
		grouped[info.Category] = append(grouped[info.Category], info)
	}
	return grouped
}

// orderedTypes fixes iteration order for ByCategory.
var orderedTypes = []Type{
	TypeCompanyProfile,
	TypePriceTable,
	TypeCalculationMethod,
	TypeCertifications,
	TypeTeamCVs,
	TypeProjectPortfolio,
	TypeFinancialStatements,
	TypeTenderDocument,
	TypeTechnicalSpecs,
	TypeFormularioA1,
	TypeFormularioA3,
	TypeFormularioA4,
	TypeFormularioB2,
	TypeFormularioB3,
	TypeAnexo1,
	TypeBillOfQuantities,
	TypePreviousProposal,
	TypeWinningProposal,
	TypeOther,
}
