package schema

// Custom string types for type safety.
type (
	// TargetMode represents how the seed file set is resolved.
	TargetMode string

	// AxisName represents one of the four risk axes.
	AxisName string

	// CriterionID represents a qualitative rubric criterion.
	CriterionID string

	// CriterionStatus represents whether a criterion produced a score.
	CriterionStatus string

	// OutputMode represents the format of terminal summaries.
	OutputMode string

	// Profile represents the scoring profile label carried through documents.
	Profile string

	// DatabaseBackend represents the database backend for scorecard history.
	DatabaseBackend string
)

// All target modes supported.
const (
	WorkingMode TargetMode = "working" // default
	StagedMode  TargetMode = "staged"
	BranchMode  TargetMode = "branch"
	RangeMode   TargetMode = "range"
	FilesMode   TargetMode = "files"
)

// All axes, in reporting order.
const (
	ComplexityAxis      AxisName = "complexity"
	TypeSafetyAxis      AxisName = "typeSafety"
	TestReliabilityAxis AxisName = "testReliability"
	ChangeRiskAxis      AxisName = "changeRisk"
)

// Rubric criteria, in reporting order.
const (
	IntentClarity      CriterionID = "intent_clarity"
	LocalReasoning     CriterionID = "local_reasoning"
	FailureSemantics   CriterionID = "failure_semantics"
	BoundaryDiscipline CriterionID = "boundary_discipline"
	TestOracleQuality  CriterionID = "test_oracle_quality"
)

// Criterion statuses.
const (
	ScoredStatus       CriterionStatus = "scored"
	NotAvailableStatus CriterionStatus = "N/A"
)

// All output modes supported.
const (
	TextOut OutputMode = "text" // default
	JSONOut OutputMode = "json"
)

// All profiles supported.
const (
	BalancedProfile Profile = "balanced" // default
	StaticProfile   Profile = "static"
	StrictProfile   Profile = "strict"
)

// All history backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite"
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none" // default
)

// Flag types raised by the overlay itself.
const (
	BoundaryViolationFlag = "boundary_discipline_violation"
	MissingFailureFlag    = "missing_failure_semantics"
)

// Severity values for critical flags.
const (
	CriticalSeverity = "critical"
	WarningSeverity  = "warning"
)

// Document schema versions.
const (
	QuantSchemaVersion     = "2.1.0"
	ScorecardSchemaVersion = "2.0.0"
)

// Analysis modes recorded in the quantitative document.
const (
	FullAnalysis     = "full"
	DegradedAnalysis = "degraded"
)

// GradeNA is the grade for a non-finite score.
const GradeNA = "N/A"

// AllAxes lists the axes in reporting order.
var AllAxes = []AxisName{ComplexityAxis, TypeSafetyAxis, TestReliabilityAxis, ChangeRiskAxis}

// AxisWeights are the fixed axis weights. They sum to 100.
var AxisWeights = map[AxisName]int{
	ComplexityAxis:      35,
	TypeSafetyAxis:      30,
	TestReliabilityAxis: 20,
	ChangeRiskAxis:      15,
}

// Criterion pairs a rubric id with its display label.
type Criterion struct {
	ID    CriterionID
	Label string
}

// AllCriteria lists the rubric criteria in reporting order.
var AllCriteria = []Criterion{
	{IntentClarity, "Intent Clarity"},
	{LocalReasoning, "Local Reasoning"},
	{FailureSemantics, "Failure Semantics"},
	{BoundaryDiscipline, "Boundary Discipline"},
	{TestOracleQuality, "Test Oracle Quality"},
}

// ValidTargetModes lists all valid target modes.
var ValidTargetModes = map[TargetMode]struct{}{
	WorkingMode: {},
	StagedMode:  {},
	BranchMode:  {},
	RangeMode:   {},
	FilesMode:   {},
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut: {},
	JSONOut: {},
}

// ValidProfiles lists all valid profiles.
var ValidProfiles = map[Profile]struct{}{
	BalancedProfile: {},
	StaticProfile:   {},
	StrictProfile:   {},
}

// ValidDatabaseBackends lists all valid history backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}
