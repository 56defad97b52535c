// Package gate runs the duplicate-detection pipeline and compiles its
// findings into a single verdict.
package gate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/clonegate/clonegate/internal/fileproc"
	"github.com/clonegate/clonegate/internal/scope"
	"github.com/clonegate/clonegate/pkg/analyzer/clusters"
	"github.com/clonegate/clonegate/pkg/analyzer/similarity"
	"github.com/clonegate/clonegate/pkg/cache"
	"github.com/clonegate/clonegate/pkg/config"
	"github.com/clonegate/clonegate/pkg/lang"
	"github.com/clonegate/clonegate/pkg/models"
)

// WaiverProvider matches findings against active waivers. Match
// returns the waiver id, or "" when the finding is not waived.
type WaiverProvider interface {
	Match(models.Finding) string
}

// Result is the compiled outcome of one gate run. Findings carry their
// severity and, when waived, the waiver id; the split accessors never
// re-derive severity.
type Result struct {
	Scope        scope.Scope        `json:"scope"`
	FilesScanned int                `json:"files_scanned"`
	Regions      int                `json:"regions"`
	CacheHits    int                `json:"cache_hits"`
	CacheMisses  int                `json:"cache_misses"`
	Findings     []models.Finding   `json:"findings"`
	Summary      similarity.Summary `json:"summary"`
	FileErrors   []string           `json:"file_errors,omitempty"`
}

// Blocking returns the unwaived block findings.
func (r *Result) Blocking() []models.Finding {
	return r.filter(func(f models.Finding) bool {
		return f.Blocking() && f.WaiverID == ""
	})
}

// Warnings returns the unwaived warn findings.
func (r *Result) Warnings() []models.Finding {
	return r.filter(func(f models.Finding) bool {
		return !f.Blocking() && f.WaiverID == ""
	})
}

// Waived returns the findings suppressed by waivers.
func (r *Result) Waived() []models.Finding {
	return r.filter(func(f models.Finding) bool { return f.WaiverID != "" })
}

// Blocked reports whether the run should fail the gate.
func (r *Result) Blocked() bool {
	return len(r.Blocking()) > 0
}

func (r *Result) filter(keep func(models.Finding) bool) []models.Finding {
	var out []models.Finding
	for _, f := range r.Findings {
		if keep(f) {
			out = append(out, f)
		}
	}
	return out
}

// Gate wires the analyzers together under one configuration.
type Gate struct {
	cfg     *config.Config
	store   *cache.Cache
	waivers WaiverProvider

	// OnStart, when set, is called with the resolved file count before
	// processing begins.
	OnStart func(total int)
	// OnProgress, when set, is called once per processed file.
	OnProgress func()
	// Exists resolves package-marker probes during clustering. Defaults
	// to a filesystem stat; tests substitute fixture lookups.
	Exists func(path string) bool
	// RootDir bounds the package-root ancestor walk. Empty means the
	// current directory.
	RootDir string
}

// New creates a gate. store and waivers may be nil, disabling caching
// and waiver matching respectively.
func New(cfg *config.Config, store *cache.Cache, waivers WaiverProvider) *Gate {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Gate{
		cfg:     cfg,
		store:   store,
		waivers: waivers,
		Exists: func(path string) bool {
			_, err := os.Stat(path)
			return err == nil
		},
	}
}

type fileResult struct {
	file    scope.File
	hash    string
	regions []models.Region
	symbols []clusters.Symbol
	hit     bool
}

// Run resolves the scope's files, extracts and compares regions, and
// compiles the verdict. Per-file read failures degrade to warnings in
// the result; only scope resolution errors are fatal.
func (g *Gate) Run(ctx context.Context, provider scope.Provider, sc scope.Scope) (*Result, error) {
	files, err := provider.Files(ctx, sc)
	if err != nil {
		return nil, fmt.Errorf("resolving %s scope: %w", sc, err)
	}

	if g.OnStart != nil {
		g.OnStart(len(files))
	}

	opts := similarity.OptionsFromConfig(g.cfg)
	results, procErrs := fileproc.Map(ctx, files, g.cfg.Workers, func(f scope.File) (fileResult, error) {
		return g.processFile(f, opts), nil
	}, g.OnProgress)

	res := &Result{Scope: sc, FilesScanned: len(files)}
	if procErrs != nil {
		for _, e := range procErrs.All() {
			res.FileErrors = append(res.FileErrors, e.Error())
		}
	}

	var (
		regions []models.Region
		symbols []clusters.Symbol
		paths   []string
	)
	for _, fr := range results {
		if fr.hit {
			res.CacheHits++
		} else {
			res.CacheMisses++
			if g.store != nil {
				g.store.Put(fr.file.Path, fr.hash, fr.regions)
			}
		}
		regions = append(regions, fr.regions...)
		symbols = append(symbols, fr.symbols...)
		paths = append(paths, fr.file.Path)
	}
	res.Regions = len(regions)

	pairs := similarity.FindPairs(regions, opts)
	res.Summary = similarity.Summarize(pairs)

	clusterOpts := clusters.Options{
		SizeWarn:       g.cfg.ClusterSizeWarn,
		SizeBlock:      g.cfg.ClusterSizeBlock,
		PackageMarkers: g.cfg.PackageMarkers,
		RootDir:        g.RootDir,
	}

	res.Findings = append(res.Findings, pairFindings(pairs)...)
	res.Findings = append(res.Findings, clusterFindings(paths, clusterOpts, g.Exists)...)
	res.Findings = append(res.Findings, basenameFindings(paths, clusterOpts, g.Exists)...)
	res.Findings = append(res.Findings, g.symbolFindings(symbols)...)

	g.applyWaivers(res.Findings)
	sortFindings(res.Findings)
	return res, nil
}

// processFile extracts regions (through the cache) and public symbols
// for one file. Symbol extraction is a plain line scan and is never
// cached.
func (g *Gate) processFile(f scope.File, opts similarity.Options) fileResult {
	profile := lang.ProfileFor(f.Language)
	fr := fileResult{file: f, hash: cache.HashBytes(f.Content)}

	if g.store != nil {
		if regions, ok := g.store.Get(f.Path, fr.hash); ok {
			fr.regions = regions
			fr.hit = true
		}
	}
	if !fr.hit {
		fr.regions = similarity.ExtractRegions(f.Path, f.Content, profile, opts)
	}
	fr.symbols = clusters.ExtractSymbols(f.Path, f.Content, profile)
	return fr
}

func pairFindings(pairs []similarity.Pair) []models.Finding {
	findings := make([]models.Finding, 0, len(pairs))
	for _, p := range pairs {
		findings = append(findings, models.Finding{
			Kind:     models.KindPair,
			Severity: p.Severity,
			Message: fmt.Sprintf("region is %.0f%% similar to %s:%d",
				p.Similarity*100, p.B.File, p.B.StartLine),
			File:        p.A.File,
			Line:        p.A.StartLine,
			OtherFile:   p.B.File,
			OtherLine:   p.B.StartLine,
			Similarity:  p.Similarity,
			Remediation: "extract the shared logic into one helper and call it from both sites",
		})
	}
	return findings
}

// clusterFindings groups the scanned files by (package root, stem).
// Stem clusters form from names alone, so client.rs, client-v2.rs and
// client-final.rs cluster even when structurally dissimilar.
func clusterFindings(paths []string, opts clusters.Options, exists func(string) bool) []models.Finding {
	var findings []models.Finding
	for _, c := range clusters.FromFiles(paths, opts, exists) {
		sev, flagged := clusters.Classify(c, opts)
		if !flagged {
			continue
		}
		findings = append(findings, models.Finding{
			Kind:     models.KindCluster,
			Severity: sev,
			Message: fmt.Sprintf("%d files in %s share the stem %q",
				len(c.Files), c.Package, c.Stem),
			File:        c.Files[0],
			Members:     c.Files,
			Remediation: "consolidate the variants into a single file or rename them to reflect distinct roles",
		})
	}
	return findings
}

func basenameFindings(paths []string, opts clusters.Options, exists func(string) bool) []models.Finding {
	var findings []models.Finding
	for _, group := range clusters.BasenameCollisions(paths, opts, exists) {
		findings = append(findings, models.Finding{
			Kind:     models.KindBasenameDuplicate,
			Severity: models.SeverityWarn,
			Message: fmt.Sprintf("basename %q appears in %d places within one package",
				filepath.Base(group[0]), len(group)),
			File:        group[0],
			Members:     group,
			Remediation: "rename the files so each basename states its distinct purpose",
		})
	}
	return findings
}

func (g *Gate) symbolFindings(symbols []clusters.Symbol) []models.Finding {
	dup := clusters.CountDuplicates(symbols)
	baselines := map[clusters.SymbolBucket]int{
		clusters.BucketTypeLike:      g.cfg.NameDuplication.TypeLikeBaseline,
		clusters.BucketFunctionLike:  g.cfg.NameDuplication.FunctionLikeBaseline,
		clusters.BucketInterfaceLike: g.cfg.NameDuplication.InterfaceLikeBaseline,
	}

	var findings []models.Finding
	for _, bucket := range []clusters.SymbolBucket{
		clusters.BucketTypeLike, clusters.BucketFunctionLike, clusters.BucketInterfaceLike,
	} {
		baseline := baselines[bucket]
		count := dup.Counts[bucket]
		verdict := clusters.CheckRegression(count, baseline)
		if verdict == clusters.RegressionNone {
			continue
		}
		sev := models.SeverityWarn
		msg := fmt.Sprintf("%s duplicate names at %d of %d baseline", bucket, count, baseline)
		if verdict == clusters.RegressionExceeded {
			sev = models.SeverityBlock
			msg = fmt.Sprintf("%s duplicate names exceed baseline: %d > %d", bucket, count, baseline)
		}
		names := dup.Names[bucket]
		sort.Strings(names)
		if len(names) > 5 {
			names = names[:5]
		}
		findings = append(findings, models.Finding{
			Kind:        models.KindSymbolRegression,
			Severity:    sev,
			Message:     msg + " (" + strings.Join(names, ", ") + ")",
			Category:    string(bucket),
			Count:       count,
			Baseline:    baseline,
			Remediation: "rename or merge the colliding declarations, or raise the baseline deliberately",
		})
	}
	return findings
}

func (g *Gate) applyWaivers(findings []models.Finding) {
	if g.waivers == nil {
		return
	}
	for i := range findings {
		if id := g.waivers.Match(findings[i]); id != "" {
			findings[i].WaiverID = id
		}
	}
}

// sortFindings orders blocks before warnings, then by location, so
// reports and snapshots are stable.
func sortFindings(findings []models.Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		a, b := findings[i], findings[j]
		if a.Blocking() != b.Blocking() {
			return a.Blocking()
		}
		if a.File != b.File {
			return a.File < b.File
		}
		return a.Line < b.Line
	})
}
