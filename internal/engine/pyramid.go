package engine

import (
	"fmt"

	"github.com/seplanfuncionariocg/feira-central-seplan/internal/models"
)

// BuildPyramid aligns male and female counts band by band.
// Bands keep the order they first appear in male, then female-only bands in
// female order. A band missing on one side counts 0 there.
func BuildPyramid(male, female []models.CategoryCount, unspecified int64) (models.Pyramid, error) {
	if unspecified < 0 {
		return models.Pyramid{}, fmt.Errorf("%w: negative unspecified count %d", models.ErrInvalidAggregateData, unspecified)
	}

	index := make(map[string]int)
	var bands []models.PyramidBand

	side := func(name string, in []models.CategoryCount, set func(*models.PyramidBand, int64)) error {
		seen := make(map[string]struct{}, len(in))
		for _, c := range in {
			if c.Value < 0 {
				return fmt.Errorf("%w: %s count for %q is negative", models.ErrInvalidAggregateData, name, c.Label)
			}
			if _, dup := seen[c.Label]; dup {
				return fmt.Errorf("%w: %s band %q listed twice", models.ErrInvalidAggregateData, name, c.Label)
			}
			seen[c.Label] = struct{}{}

			i, ok := index[c.Label]
			if !ok {
				i = len(bands)
				index[c.Label] = i
				bands = append(bands, models.PyramidBand{AgeRange: c.Label})
			}
			set(&bands[i], c.Value)
		}
		return nil
	}

	if err := side("male", male, func(b *models.PyramidBand, v int64) { b.Male = v }); err != nil {
		return models.Pyramid{}, err
	}
	if err := side("female", female, func(b *models.PyramidBand, v int64) { b.Female = v }); err != nil {
		return models.Pyramid{}, err
	}
	return models.Pyramid{Bands: bands, Unspecified: unspecified}, nil
}

// PyramidFromDocument splits piramide.json rows by gender and rebuilds them.
func PyramidFromDocument(doc models.PyramidDocument) (models.Pyramid, error) {
	male := make([]models.CategoryCount, 0, len(doc.Bands))
	female := make([]models.CategoryCount, 0, len(doc.Bands))
	for _, row := range doc.Bands {
		m, err := models.NewCategoryCount(row.AgeRange, row.Male)
		if err != nil {
			return models.Pyramid{}, err
		}
		f, err := models.NewCategoryCount(row.AgeRange, row.Female)
		if err != nil {
			return models.Pyramid{}, err
		}
		male = append(male, m)
		female = append(female, f)
	}
	return BuildPyramid(male, female, doc.Unspecified)
}

// PyramidRows is the layout view: signed values for bars, absolute for labels.
func PyramidRows(p models.Pyramid) []models.PyramidRowView {
	rows := make([]models.PyramidRowView, 0, len(p.Bands))
	for _, b := range p.Bands {
		rows = append(rows, models.PyramidRowView{
			AgeRange:     b.AgeRange,
			MaleSigned:   b.SignedMale(),
			FemaleSigned: b.SignedFemale(),
			MaleAbs:      b.Male,
			FemaleAbs:    b.Female,
		})
	}
	return rows
}

// PyramidShare is a band count over the banded total, with unspecified left out.
func PyramidShare(p models.Pyramid, count int64) (string, error) {
	pct, err := Percent(count, p.Total())
	if err != nil {
		return "", err
	}
	return pct.StringFixed(1) + "%", nil
}
