package constants

// Similarity thresholds and scoring bounds used across duplicate detection
// and refactoring recommendation.
//
// References:
// - Roy, C. K., & Cordy, J. R. (2007). A survey on software clone detection research
// - Bellon, S., et al. (2007). Comparison and evaluation of clone detection tools
const (
	// DefaultMinSimilarity is the minimum pairwise similarity for two
	// fragments to be clustered into the same duplicate group. Near-miss
	// clones typically sit at or above 80% line similarity.
	DefaultMinSimilarity = 0.80

	// DefaultMinLines is the minimum fragment length considered for
	// grouping. Fragments below this length produce too many incidental
	// matches to be worth reporting.
	DefaultMinLines = 3

	// DefaultMaxCandidates is the number of ranked candidates returned by
	// a full analysis run.
	DefaultMaxCandidates = 10

	// MaxIndentationWidth caps leading whitespace during normalization so
	// that deeply nested copies of the same block still compare equal.
	MaxIndentationWidth = 8
)

// Hybrid similarity weighting. The sequence ratio is exact but expensive;
// the sketch estimate is fast but approximate. The blend favors the exact
// signal while letting the sketch pull down coincidental line matches.
const (
	HybridSequenceWeight = 0.6
	HybridSketchWeight   = 0.4
)

// MinHash sketch parameters.
const (
	// DefaultSketchHashes is the signature width for the sketch estimator.
	DefaultSketchHashes = 128

	// DefaultShingleSize is the number of consecutive normalized lines per
	// shingle fed into the sketch.
	DefaultShingleSize = 2
)

// Recommendation score boundaries (overall 0-100 scale).
const (
	// HighValueScoreThreshold marks groups worth extracting immediately.
	HighValueScoreThreshold = 80.0

	// MediumValueScoreThreshold marks groups worth considering.
	MediumValueScoreThreshold = 50.0
)

// Refactoring complexity boundaries on the 0-10 complexity scale.
const (
	// LowComplexityThreshold separates low-effort extractions from the rest.
	LowComplexityThreshold = 3.0

	// HighComplexityThreshold marks groups where extraction carries real risk.
	HighComplexityThreshold = 7.0
)

// Enrichment worker pool defaults.
const (
	// DefaultEnrichmentWorkers bounds the per-candidate enrichment pool.
	DefaultEnrichmentWorkers = 4

	// DefaultEnrichmentTimeoutSeconds is the per-candidate enrichment budget.
	DefaultEnrichmentTimeoutSeconds = 30
)

// Backup retention defaults.
const (
	// DefaultBackupRetentionDays is the age after which cleanup removes a backup.
	DefaultBackupRetentionDays = 30

	// BackupDirName is the backup root directory under the project root.
	BackupDirName = ".ast-grep-backups"

	// BackupMetadataFile is the metadata record written alongside file copies.
	BackupMetadataFile = "backup-metadata.json"

	// BackupIDPrefix prefixes every generated backup identifier.
	BackupIDPrefix = "dedup"
)
