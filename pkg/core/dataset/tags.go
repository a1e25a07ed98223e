package dataset

import (
	"sec_reconstructor/pkg/models"
)

// TagTable holds taxonomy tag metadata, indexed by tag name (first
// occurrence wins when a tag appears under several versions).
type TagTable struct {
	tags  []models.TagMeta
	byTag map[string]int
}

// LoadTags parses a tag.txt file.
func LoadTags(path string) (*TagTable, error) {
	file, err := readTSV(path)
	if err != nil {
		return nil, err
	}

	t := &TagTable{byTag: make(map[string]int)}
	for _, row := range file.rows {
		meta := models.TagMeta{
			Tag:      file.field(row, "tag"),
			Version:  file.field(row, "version"),
			Custom:   file.field(row, "custom") == "1",
			Abstract: file.field(row, "abstract") == "1",
			Datatype: file.field(row, "datatype"),
			Iord:     file.field(row, "iord"),
			Crdr:     file.field(row, "crdr"),
			Label:    file.field(row, "tlabel"),
			Doc:      file.field(row, "doc"),
		}
		if _, dup := t.byTag[meta.Tag]; !dup {
			t.byTag[meta.Tag] = len(t.tags)
		}
		t.tags = append(t.tags, meta)
	}
	return t, nil
}

// Len reports the tag definition count.
func (t *TagTable) Len() int {
	return len(t.tags)
}

// Meta looks a tag definition up by name.
func (t *TagTable) Meta(tag string) (models.TagMeta, bool) {
	i, ok := t.byTag[tag]
	if !ok {
		return models.TagMeta{}, false
	}
	return t.tags[i], true
}

// LabelFor returns the human-readable label for a tag.
func (t *TagTable) LabelFor(tag string) (string, bool) {
	meta, ok := t.Meta(tag)
	if !ok || meta.Label == "" {
		return "", false
	}
	return meta.Label, true
}

// IsDebit reports whether the tag is a debit-balance concept; the second
// return is false when the tag is unknown or carries no balance attribute.
func (t *TagTable) IsDebit(tag string) (bool, bool) {
	meta, ok := t.Meta(tag)
	if !ok || meta.Crdr == "" {
		return false, false
	}
	return meta.Crdr == "D", true
}
