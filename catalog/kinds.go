package catalog

import (
	"github.com/rise-and-shine/catalog/compoundid"
)

// Endpoint names with special handling.
const (
	PatientsEndpoint       = "patients"
	VariantSetsEndpoint    = "variantsets"
	VariantsEndpoint       = "variants"
	VariantsByGeneEndpoint = "variantsByGene"

	// PatientIDField is the join key shared by clinical entities.
	PatientIDField = "patientId"
	// VariantSetIDField links a variant to its owning variant set.
	VariantSetIDField = "variantSetId"
)

// DatasetKind is the identifier shape of datasets.
//
//nolint:gochecknoglobals // identifier kinds are fixed at compile time
var DatasetKind = compoundid.NewRootKind("dataset", "dataset")

//nolint:gochecknoglobals // schema registry is built once and never mutated
var (
	registry   = buildRegistry()
	byEndpoint = indexRegistry(registry)
)

func str(name string) FieldDef  { return FieldDef{Name: name, Type: String} }
func num(name string) FieldDef  { return FieldDef{Name: name, Type: Number} }
func flag(name string) FieldDef { return FieldDef{Name: name, Type: Bool} }
func list(name string) FieldDef { return FieldDef{Name: name, Type: StringList} }

func clinical(plural, kindName, differentiator string, fields ...FieldDef) *Schema {
	kind := compoundid.NewKind(kindName, DatasetKind, differentiator, kindName)
	return newSchema(plural, kind, append([]FieldDef{str(PatientIDField)}, fields...)...)
}

func buildRegistry() []*Schema {
	variantSets := clinical(VariantSetsEndpoint, "variantSet", "vs",
		str("sampleId"), str("referenceSetName"), str("callerName"),
	)

	variantKind := compoundid.NewKind("variant", variantSets.Kind, "", "variant")
	variants := newSchema(VariantsEndpoint, variantKind,
		FieldDef{Name: VariantSetIDField, Type: String, Derived: true},
		str("referenceName"), num("start"), num("end"),
		str("referenceBases"), list("alternateBases"), str("gene"), list("names"),
	)
	variants.Parent = variantSets

	return []*Schema{
		newSchema(PatientsEndpoint, compoundid.NewKind("patient", DatasetKind, "pat", "patient"),
			FieldDef{Name: PatientIDField, Type: String, Derived: true, FromName: true},
			str("otherIds"), str("dateOfBirth"), str("gender"), str("ethnicity"), str("race"),
			str("provinceOfResidence"), str("dateOfDeath"), str("causeOfDeath"),
			flag("autopsyPerformed"), list("comorbidities"),
		),
		clinical("enrollments", "enrollment", "enr",
			str("enrollmentInstitution"), str("enrollmentApprovalDate"), str("crossEnrollment"),
			num("ageAtEnrollment"), str("eligibilityCategory"), str("statusAtEnrollment"),
			str("primaryOncologistName"), str("treatingCentreName"), str("treatingCentreProvince"),
		),
		clinical("consents", "consent", "con",
			str("consentId"), str("consentDate"), str("consentVersion"), str("patientConsentedTo"),
			str("reasonForRejection"), flag("wasAssentObtained"), str("dateOfConsentWithdrawal"),
		),
		clinical("diagnoses", "diagnosis", "dia",
			str("diagnosisId"), str("diagnosisDate"), num("ageAtDiagnosis"), str("cancerType"),
			str("classification"), str("cancerSite"), str("histology"), str("sampleType"),
			str("tumorGrade"), str("stageGroup"), str("stagingSystem"),
		),
		clinical("samples", "sample", "sam",
			str("sampleId"), str("diagnosisId"), str("localBiobankId"), str("collectionDate"),
			str("collectionHospital"), str("sampleType"), str("tissueDiseaseState"),
			str("cancerType"), str("cancerSubtype"), flag("qualityControlPerformed"),
			num("estimatedTumorContent"), num("quantity"), str("units"),
		),
		clinical("treatments", "treatment", "tre",
			str("courseNumber"), str("therapeuticModality"), str("treatmentPlanType"),
			str("treatmentIntent"), str("startDate"), str("stopDate"),
			str("reasonForEndingTheTreatment"), str("responseToTreatment"),
			str("responseCriteriaUsed"), str("treatingCentreName"),
		),
		clinical("outcomes", "outcome", "out",
			str("physicalExamId"), str("dateOfAssessment"), str("diseaseResponseOrStatus"),
			str("methodOfResponseEvaluation"), str("vitalStatus"), num("height"), num("weight"),
			str("performanceStatus"),
		),
		clinical("complications", "complication", "com",
			str("date"), str("lateComplicationOfTherapyDeveloped"), str("lateToxicityDetail"),
			str("suspectedTreatmentInducedNeoplasmDeveloped"),
		),
		clinical("tumourboards", "tumourboard", "tum",
			str("dateOfMolecularTumorBoard"), str("typeOfSampleAnalyzed"),
			list("analysesDiscussed"), str("actionableTargetFound"),
			str("molecularTumorBoardRecommendation"), str("summaryReport"),
		),
		clinical("chemotherapies", "chemotherapy", "che",
			str("courseNumber"), str("startDate"), str("stopDate"), str("systematicTherapyAgentName"),
			str("route"), str("dose"), str("doseFrequency"), str("doseUnit"),
			num("daysPerCycle"), num("numberOfCycle"), str("treatmentIntent"), str("treatingCentreName"),
		),
		clinical("radiotherapies", "radiotherapy", "rad",
			str("courseNumber"), str("startDate"), str("stopDate"), str("therapeuticModality"),
			str("radiotherapyTechnique"), num("totalDose"), str("doseFractionationScheme"),
			str("treatingCentreName"),
		),
		clinical("surgeries", "surgery", "sur",
			str("courseNumber"), str("startDate"), str("stopDate"), str("sampleId"),
			str("diagnosisId"), str("site"), str("type"),
		),
		clinical("immunotherapies", "immunotherapy", "imm",
			str("courseNumber"), str("startDate"), str("immunotherapyType"),
			str("immunotherapyTarget"), str("immunotherapyDetail"),
		),
		clinical("celltransplants", "celltransplant", "cel",
			str("courseNumber"), str("startDate"), str("cellSource"), str("donorType"),
		),
		clinical("slides", "slide", "sli",
			str("sampleId"), str("slideId"), num("lymphocytes"), num("tumorNuclei"),
			num("necrosis"), num("normalCells"), str("sectionLocation"), num("tumorCells"),
		),
		clinical("studies", "study", "stu",
			str("startDate"), str("endDate"), str("status"),
		),
		clinical("labtests", "labtest", "lab",
			str("startDate"), str("collectionDate"), str("endDate"), str("eventType"),
			list("testResults"), str("timePoint"),
		),
		clinical("extractions", "extraction", "ext",
			str("sampleId"), str("rnaBlood"), str("dnaBlood"), str("rnaTissue"), str("dnaTissue"),
			str("site"),
		),
		clinical("sequencing", "sequencing", "seq",
			str("sampleId"), str("dnaLibraryKit"), str("dnaSeqPlatform"), str("dnaReadLength"),
			str("rnaLibraryKit"), str("rnaSeqPlatform"), str("pcrCycles"), str("extractionId"),
			str("site"),
		),
		clinical("alignments", "alignment", "aln",
			str("sampleId"), str("alignmentId"), str("inHousePipeline"), str("alignmentTool"),
			str("mergeTool"), str("markDuplicates"), str("realignerTarget"), str("indelRealigner"),
			num("coverage"), str("reference"), str("sequencingId"), str("site"),
		),
		clinical("variantcalling", "variantcalling", "vac",
			str("sampleId"), str("variantCallingId"), str("inHousePipeline"),
			list("variantCaller"), str("tabulate"), str("annotation"), str("mergeTool"),
			str("rdaToTab"), str("delly"), str("postFilter"), str("clinicalAnnotation"),
			str("alignmentId"), str("site"),
		),
		clinical("fusiondetection", "fusiondetection", "fdn",
			str("sampleId"), str("fusionDetectionId"), str("inHousePipeline"),
			list("svDetection"), str("fusionDetection"), str("realignment"), str("annotation"),
			str("genomeReference"), str("geneModels"), str("alignmentId"), str("site"),
		),
		clinical("expressionanalysis", "expressionanalysis", "exa",
			str("sampleId"), str("expressionAnalysisId"), str("readLength"), str("reference"),
			str("alignmentTool"), str("bamHandling"), str("expressionEstimation"),
			str("sequencingId"), str("site"),
		),
		variantSets,
		variants,
	}
}

func indexRegistry(schemas []*Schema) map[string]*Schema {
	m := make(map[string]*Schema, len(schemas))
	for _, sc := range schemas {
		m[sc.Plural] = sc
	}
	return m
}

// Lookup returns the schema served under an endpoint name.
// The deprecated variantsByGene name resolves to the variants schema.
func Lookup(endpoint string) (*Schema, bool) {
	if endpoint == VariantsByGeneEndpoint {
		endpoint = VariantsEndpoint
	}
	sc, ok := byEndpoint[endpoint]
	return sc, ok
}

// Schemas returns every registered schema in registration order.
func Schemas() []*Schema {
	return append([]*Schema(nil), registry...)
}

// Endpoints returns every searchable endpoint name, variantsByGene included.
func Endpoints() []string {
	names := make([]string, 0, len(registry)+1)
	for _, sc := range registry {
		names = append(names, sc.Plural)
	}
	return append(names, VariantsByGeneEndpoint)
}

// CanonicalTable rewrites the deprecated variantsByGene name to variants.
func CanonicalTable(name string) string {
	if name == VariantsByGeneEndpoint {
		return VariantsEndpoint
	}
	return name
}
