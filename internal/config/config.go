package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These match the behavior of the original extraction scripts where
// applicable, so a default run reproduces the reference output.
const (
	// DefaultTimeout is the per-request timeout. Corporate governance and
	// IR pages are served from ordinary web servers, so 15 seconds is
	// generous without letting a dead host stall the whole crawl.
	DefaultTimeout = 15 * time.Second

	// DefaultCrawlDepth bounds how many link hops to follow from the seed.
	// Depth 0 means only the seed page. Governance sections are shallow;
	// three hops reaches every page in practice.
	DefaultCrawlDepth = 3

	// DefaultMaxPages caps the total pages fetched per crawl independent of
	// depth. This prevents runaway crawls on large or calendar-generating
	// sites.
	DefaultMaxPages = 25

	// DefaultMinChunkLen is the minimum text length (in characters) for a
	// chunk to be emitted. Shorter fragments are navigation labels and
	// button text, not content.
	DefaultMinChunkLen = 20

	// DefaultBatchSize is the number of seeds crawled concurrently when
	// multiple seeds are given. Sessions share no state, so this only
	// bounds resource usage.
	DefaultBatchSize = 4

	// DefaultUserAgent identifies webscrap in HTTP requests.
	// Using a descriptive User-Agent is good practice and allows site
	// operators to identify crawler traffic in their logs.
	DefaultUserAgent = "webscrap/1.0 (+https://github.com/Kavibharathi169/webscrapping)"

	// DefaultMaxBodySize limits the maximum response body size to read.
	// 5MB is sufficient for any HTML page while preventing memory
	// exhaustion from unexpectedly large responses.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// DefaultOrgPattern is the substring scanned for when deriving the
	// organization label from footer, address, and paragraph elements.
	DefaultOrgPattern = "Co., Ltd"

	// DefaultDocumentType tags every chunk with the kind of document
	// being ingested.
	DefaultDocumentType = "governance_policy"

	// DefaultOutputFile is the text report path when none is specified.
	DefaultOutputFile = "governance_extracted.txt"

	// AppName is the application name used for XDG directory paths.
	AppName = "webscrap"
)

// DefaultBlockedExtensions returns the lower-cased path suffixes that are
// never fetched. Documents, images, and archives carry no segmentable HTML.
func DefaultBlockedExtensions() []string {
	return []string{
		".pdf", ".jpg", ".jpeg", ".png", ".gif",
		".zip", ".doc", ".docx", ".xls", ".xlsx",
	}
}

// Config holds all configuration options for webscrap.
// This struct is populated from CLI flags and passed through the application
// via dependency injection rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., CrawlConfig, ReportConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant benefit.
type Config struct {
	// Timeout is the connection timeout for each HTTP request.
	// There is no retry: a timed-out URL is skipped and the crawl continues.
	Timeout time.Duration

	// CrawlDepth is the maximum number of link hops from the seed.
	// Depth 0 means only fetch the seed page.
	CrawlDepth int

	// MaxPages is the maximum number of pages to fetch per crawl.
	// A value of 0 means use DefaultMaxPages.
	MaxPages int

	// MinChunkLen is the minimum chunk text length in characters.
	// Text below this threshold is silently discarded, not an error.
	MinChunkLen int

	// BlockedExtensions are lower-cased path suffixes never fetched.
	BlockedExtensions []string

	// PathKeywords is an optional allow-list: when non-empty, a candidate
	// URL's lower-cased path must contain at least one keyword to be
	// enqueued. Empty means only extension blocking applies.
	PathKeywords []string

	// AllowSubdomains widens the same-domain policy from exact host
	// equality to dot-suffix matching. The reference behavior rejects
	// subdomains, so this defaults to false.
	AllowSubdomains bool

	// IncludeContainers adds generic div and span containers to the
	// allowed tag set. This matches the single-page reference variant but
	// produces noisier chunks, so it is off by default.
	IncludeContainers bool

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	// Set to 0 to use the default (5MB).
	MaxBodySize int64

	// OrgLabel is a static organization label stamped on every chunk.
	// When empty, the organization is derived by scanning the page for
	// OrgPattern.
	OrgLabel string

	// OrgPattern is the substring used to derive the organization label
	// when OrgLabel is empty.
	OrgPattern string

	// DocumentType tags every chunk (e.g. "governance_policy").
	DocumentType string

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// BatchSize is the number of concurrent crawl sessions when multiple
	// seeds are given.
	BatchSize int

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .webscrap in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// SiteProfiles holds per-site configurations loaded from the config
	// file. Populated by LoadConfigFile and consulted per seed.
	SiteProfiles *File

	// JSONReport enables JSON report output instead of the reference text
	// format. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables a Markdown summary report instead of the
	// reference text format. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// OutputFile is the report output path. Directories are created
	// automatically if they don't exist.
	OutputFile string

	// DBDir is the directory path for the SQLite chunk database.
	// When set, extraction results are persisted for later comparison.
	DBDir string

	// SaveToDB indicates whether to persist results to the database.
	SaveToDB bool

	// Seeds is the list of URLs to start crawling from.
	Seeds []string
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that reproduce the
// reference extraction behavior. Users can override specific values
// after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (e.g., timeout, minimum
// chunk length). This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		Timeout:           DefaultTimeout,
		CrawlDepth:        DefaultCrawlDepth,
		MaxPages:          DefaultMaxPages,
		MinChunkLen:       DefaultMinChunkLen,
		BlockedExtensions: DefaultBlockedExtensions(),
		UserAgent:         DefaultUserAgent,
		MaxBodySize:       DefaultMaxBodySize,
		OrgPattern:        DefaultOrgPattern,
		DocumentType:      DefaultDocumentType,
		BatchSize:         DefaultBatchSize,
		OutputFile:        DefaultOutputFile,
	}
}

// XDGDataDir returns the XDG data directory for webscrap.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.local/share/webscrap
// On macOS: ~/Library/Application Support/webscrap
// On Windows: %LOCALAPPDATA%\webscrap
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// We chose to return the first error found rather than collecting all errors
// because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	// We must have at least one seed to crawl
	if len(c.Seeds) == 0 {
		return ErrNoSeed
	}

	// Timeout must be positive; zero timeout would cause immediate failures
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	// Depth 0 is valid (seed page only), negative is not
	if c.CrawlDepth < 0 {
		return ErrInvalidDepth
	}

	// MinChunkLen must be positive; zero would emit empty chunks
	if c.MinChunkLen <= 0 {
		return ErrInvalidMinChunkLen
	}

	// BatchSize must be positive; zero would mean no crawling
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	// JSONReport and MarkdownReport are mutually exclusive
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	// MaxBodySize must be non-negative; 0 selects the default
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	return nil
}
