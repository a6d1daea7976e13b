package doctor

// IssueCategory groups issues by type.
type IssueCategory string

const (
	// CategoryEnvironment represents problems with required tooling.
	CategoryEnvironment IssueCategory = "environment"
	// CategoryManifest represents problems with the .hk.yaml manifest.
	CategoryManifest IssueCategory = "manifest"
	// CategoryShims represents problems with installed hook shims.
	CategoryShims IssueCategory = "shims"
	// CategorySources represents problems with hook sources and entries.
	CategorySources IssueCategory = "sources"
)

// Fix actions doctor --fix can perform.
const (
	FixInstallShim = "install_shim"
	FixUpdateShim  = "update_shim"
	FixFetchSource = "fetch_source"
)

// Issue represents a problem detected by doctor.
type Issue struct {
	Key         string        // stage, hook id, or source URL
	Description string        // human-readable description
	FixAction   string        // what --fix would do, empty if not fixable
	Category    IssueCategory // issue category
}

// Fixable reports whether --fix can repair the issue.
func (i *Issue) Fixable() bool {
	return i.FixAction != ""
}

// IssueStats tracks counts by category.
type IssueStats struct {
	ShimsInstalled int // stages with a current shim
	ShimsMissing   int // configured stages without a shim
	ShimsStale     int // shims written by an older hk
	SourcesCached  int // remote sources present in the cache
	SourcesMissing int // remote sources not yet cloned
	EntriesOK      int // hook entries that resolve to a command
	EntriesBroken  int // hook entries that don't resolve
}
