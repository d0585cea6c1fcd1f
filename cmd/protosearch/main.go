// Copyright 2018 Rob Marissen.
// SPDX-License-Identifier: MIT

// protosearch is a thin demonstration binary that wires the Classic
// Search, FDR and GPTMD engines together against a pair of JSON fixture
// files. It is not a replacement for a real task layer: file-format I/O
// (mzML/FASTA/etc.) is out of scope for this module, so inputs here are
// already-parsed proteins and scans serialized as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/524D/protosearch/internal/bio"
	"github.com/524D/protosearch/internal/fdr"
	"github.com/524D/protosearch/internal/massdiff"
	"github.com/524D/protosearch/internal/search"
	"github.com/524D/protosearch/internal/spectrum"
	"github.com/inconshreveable/log15"
)

const progName = "protosearch"

var progVersion = `Unknown`

// Command line parameters, following the teacher's pointer-field +
// flag.X(...) + sanitize-after-parse idiom.
type params struct {
	proteinsFilename *string
	scansFilename    *string
	protease         *string
	minPeptideLen    *int
	maxPeptideLen    *int
	maxMissed        *int
	scoreCutoff      *float64
	productTolPPM    *float64
	maxCharge        *int
	decoyOnTheFly    *bool
	threads          *int
	verbose          *bool
	args             []string
}

func sanitizeParams(par *params) error {
	if *par.proteinsFilename == "" || *par.scansFilename == "" {
		return fmt.Errorf("both -proteins and -scans must be given")
	}
	if *par.minPeptideLen <= 0 {
		return fmt.Errorf("-minlen must be positive")
	}
	if *par.maxPeptideLen < *par.minPeptideLen {
		return fmt.Errorf("-maxlen must be >= -minlen")
	}
	return nil
}

func usage() {
	fmt.Fprintf(os.Stderr, `USAGE:
  %s [options] -proteins <file.json> -scans <file.json>

  Runs the Classic Search Engine followed by FDR analysis against a
  protein database and scan collection supplied as JSON fixtures, and
  prints a short summary of the resulting PSMs.

OPTIONS:
`, progName)
	flag.PrintDefaults()
}

// fixtureProtein and fixtureScan are the on-disk JSON shapes for the demo
// binary's inputs; a real task layer would build bio.Protein and
// spectrum.Scan values directly from its own file-format readers instead.
type fixtureProtein struct {
	Accession    string `json:"accession"`
	BaseSequence string `json:"base_sequence"`
}

type fixtureScan struct {
	ScanIndex        int     `json:"scan_index"`
	ScanNumber       int     `json:"scan_number"`
	PrecursorMass    float64 `json:"precursor_mass"`
	DissociationType string  `json:"dissociation_type"`
	Peaks            []struct {
		Mz        float64 `json:"mz"`
		Intensity float64 `json:"intensity"`
	} `json:"peaks"`
}

func loadProteins(filename string) ([]*bio.Protein, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	var fixtures []fixtureProtein
	if err := json.Unmarshal(data, &fixtures); err != nil {
		return nil, err
	}
	out := make([]*bio.Protein, len(fixtures))
	for i, f := range fixtures {
		out[i] = &bio.Protein{Accession: f.Accession, BaseSequence: f.BaseSequence}
	}
	return out, nil
}

func loadScans(filename string) (*spectrum.Collection, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	var fixtures []fixtureScan
	if err := json.Unmarshal(data, &fixtures); err != nil {
		return nil, err
	}
	scans := make([]*spectrum.Scan, len(fixtures))
	for i, f := range fixtures {
		peaks := make([]spectrum.Peak, len(f.Peaks))
		for j, p := range f.Peaks {
			peaks[j] = spectrum.Peak{Mz: p.Mz, Intensity: p.Intensity}
		}
		scans[i] = &spectrum.Scan{
			ScanIndex:        f.ScanIndex,
			ScanNumber:       f.ScanNumber,
			PrecursorMass:    f.PrecursorMass,
			DissociationType: dissociationTypeFromString(f.DissociationType),
			Peaks:            peaks,
		}
	}
	return spectrum.NewCollection(scans), nil
}

func dissociationTypeFromString(s string) bio.DissociationType {
	switch s {
	case "HCD":
		return bio.HCD
	case "CID":
		return bio.CID
	case "ETD":
		return bio.ETD
	default:
		return bio.Autodetect
	}
}

func main() {
	var par params

	par.proteinsFilename = flag.String("proteins", "", "`filename` of a JSON protein fixture list")
	par.scansFilename = flag.String("scans", "", "`filename` of a JSON scan fixture list")
	par.protease = flag.String("protease", "trypsin", "digestion `protease` (trypsin, chymotrypsin, nonspecific)")
	par.minPeptideLen = flag.Int("minlen", 7, "minimum peptide length")
	par.maxPeptideLen = flag.Int("maxlen", 50, "maximum peptide length")
	par.maxMissed = flag.Int("missed", 2, "maximum missed cleavages")
	par.scoreCutoff = flag.Float64("scorecutoff", 1.0, "minimum score for a PSM candidate to be recorded")
	par.productTolPPM = flag.Float64("ppm", 20.0, "product ion mass tolerance in ppm")
	par.maxCharge = flag.Int("maxcharge", 2, "maximum fragment ion charge to search")
	par.decoyOnTheFly = flag.Bool("decoy", true, "generate decoys on the fly during search")
	par.threads = flag.Int("threads", 0, "worker thread count (0: use GOMAXPROCS)")
	par.verbose = flag.Bool("verbose", false, "print debug-level log messages")
	version := flag.Bool("version", false, "show software version")
	flag.Usage = usage
	flag.Parse()

	if *version {
		fmt.Fprintf(os.Stderr, "%s version %s\n", progName, progVersion)
		return
	}
	par.args = flag.Args()

	if err := sanitizeParams(&par); err != nil {
		fmt.Fprintf(os.Stderr, "%s\nType %s --help for usage\n", err, progName)
		os.Exit(2)
	}
	if err := run(par); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %s\n", progName, err)
		os.Exit(1)
	}
}

func run(par params) error {
	logger := log15.New()
	level := log15.LvlInfo
	if *par.verbose {
		level = log15.LvlDebug
	}
	logger.SetHandler(log15.LvlFilterHandler(level, log15.StreamHandler(os.Stderr, log15.LogfmtFormat())))

	proteins, err := loadProteins(*par.proteinsFilename)
	if err != nil {
		return fmt.Errorf("loading proteins: %w", err)
	}
	scans, err := loadScans(*par.scansFilename)
	if err != nil {
		return fmt.Errorf("loading scans: %w", err)
	}

	cfg := search.Config{
		Proteins: proteins,
		Scans:    scans,
		Digestion: bio.DigestionParams{
			Protease:                *par.protease,
			MaxMissedCleavages:      *par.maxMissed,
			MinPeptideLength:        *par.minPeptideLen,
			MaxPeptideLength:        *par.maxPeptideLen,
			MaxModificationIsoforms: 16,
		},
		MassDiffAcceptor: massdiff.SingleNotchAcceptor{Tolerance: 0.02},
		Common: search.CommonParams{
			MaxThreadsPerFile:    *par.threads,
			ScoreCutoff:          *par.scoreCutoff,
			DissociationType:     bio.Autodetect,
			ProductMassTolerance: spectrum.Tolerance{Value: *par.productTolPPM, PPM: true},
			MaxFragmentCharge:    *par.maxCharge,
			ReportAmbiguity:      true,
		},
		DecoyOnTheFly: *par.decoyOnTheFly,
		FullFilePath:  *par.scansFilename,
		Logger:        logger,
		Progress: func(percent int, message string, _ []string) {
			logger.Info("progress", "percent", percent, "message", message)
		},
	}

	engine, err := search.New(cfg)
	if err != nil {
		return fmt.Errorf("constructing search engine: %w", err)
	}
	results, err := engine.Run(context.Background())
	if err != nil {
		return fmt.Errorf("running search: %w", err)
	}

	var psms []*search.PeptideSpectralMatch
	for _, p := range results.PSMs {
		if p != nil {
			psms = append(psms, p)
		}
	}
	logger.Info("search complete", "psms", len(psms))

	fdrEngine, err := fdr.New(fdr.Config{NumNotches: cfg.MassDiffAcceptor.NumNotches(), Logger: logger})
	if err != nil {
		return fmt.Errorf("constructing fdr engine: %w", err)
	}
	fdrResults, err := fdrEngine.Run(psms)
	if err != nil {
		return fmt.Errorf("running fdr analysis: %w", err)
	}
	logger.Info("fdr complete", "psms_within_1pct_fdr", fdrResults.PSMsWithin1PercentFDR, "used_delta_score", fdrResults.UsedDeltaScore)

	for _, p := range psms {
		seq, unambiguous := p.FullSequence()
		fmt.Printf("scan=%d score=%.4f q=%.4f decoy=%v sequence=%s ambiguous=%v\n",
			p.ScanIndex, p.BestScore, p.FdrInfo.QValue, p.IsDecoy(), seq, !unambiguous)
	}
	return nil
}
