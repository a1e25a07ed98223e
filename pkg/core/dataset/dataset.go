package dataset

import (
	"fmt"
	"os"
	"path/filepath"

	"sec_reconstructor/pkg/core/reconstruct"
	"sec_reconstructor/pkg/models"
)

// Dataset bundles the four flat-file tables of one quarterly dataset and
// implements the store interfaces the reconstruction engine consumes.
// Missing files leave the corresponding table nil; lookups against a nil
// table return empty results, mirroring how absence is handled everywhere
// else in the pipeline.
type Dataset struct {
	Dir          string
	Submissions  *SubmissionTable
	Numeric      *NumericTable
	Presentation *PresentationTable
	Tags         *TagTable
}

// Open loads whichever of sub.txt, num.txt, pre.txt, tag.txt exist under
// dir. It errors only on unreadable or malformed files, not absent ones.
func Open(dir string) (*Dataset, error) {
	ds := &Dataset{Dir: dir}

	load := func(name string, into func(path string) error) error {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil
		}
		return into(path)
	}

	if err := load("sub.txt", func(p string) (err error) {
		ds.Submissions, err = LoadSubmissions(p)
		return
	}); err != nil {
		return nil, fmt.Errorf("load submissions: %w", err)
	}
	if err := load("num.txt", func(p string) (err error) {
		ds.Numeric, err = LoadNumeric(p)
		return
	}); err != nil {
		return nil, fmt.Errorf("load numeric facts: %w", err)
	}
	if err := load("pre.txt", func(p string) (err error) {
		ds.Presentation, err = LoadPresentation(p)
		return
	}); err != nil {
		return nil, fmt.Errorf("load presentation: %w", err)
	}
	if err := load("tag.txt", func(p string) (err error) {
		ds.Tags, err = LoadTags(p)
		return
	}); err != nil {
		return nil, fmt.Errorf("load tags: %w", err)
	}
	return ds, nil
}

// FactsFor implements reconstruct.FactStore.
func (ds *Dataset) FactsFor(adsh string) []models.NumericFact {
	if ds.Numeric == nil {
		return nil
	}
	return ds.Numeric.FactsFor(adsh)
}

// StructureFor implements reconstruct.PresentationStore.
func (ds *Dataset) StructureFor(adsh, stmt string) []models.PresentationRow {
	if ds.Presentation == nil {
		return nil
	}
	return ds.Presentation.StructureFor(adsh, stmt)
}

// LabelFor implements reconstruct.LabelLookup.
func (ds *Dataset) LabelFor(tag string) (string, bool) {
	if ds.Tags == nil {
		return "", false
	}
	return ds.Tags.LabelFor(tag)
}

// Engine builds a reconstruction engine over this dataset.
func (ds *Dataset) Engine() *reconstruct.Engine {
	return reconstruct.NewEngine(ds, ds, ds)
}
