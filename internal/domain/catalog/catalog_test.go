package catalog_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/interviewcoach/internal/domain/catalog"
	"github.com/okian/interviewcoach/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDefault(t *testing.T) {
	Convey("Given the built-in catalog", t, func() {
		So(func() { catalog.Default() }, ShouldNotPanic)
		table := catalog.Default()

		Convey("Then it validates", func() {
			So(table.Validate(), ShouldBeNil)
		})

		Convey("Then every question template is a question", func() {
			for _, e := range table.Entries {
				for _, q := range e.Questions {
					So(strings.HasSuffix(q, "?"), ShouldBeTrue)
				}
			}
		})

		Convey("Then entries follow the documented precedence", func() {
			got := make([]model.Category, 0, len(table.Entries))
			for _, e := range table.Entries {
				got = append(got, e.Category)
			}
			So(got, ShouldResemble, model.Categories)
		})

		Convey("Then baselines match the documented policy", func() {
			want := map[model.Category]float64{
				model.CategorySoftware:  7,
				model.CategoryJava:      7.5,
				model.CategoryIntern:    5.5,
				model.CategoryData:      7,
				model.CategoryMarketing: 6.5,
				model.CategoryProduct:   6.5,
				model.CategoryDesign:    6.5,
				model.CategoryGeneric:   6.5,
			}
			for c, b := range want {
				So(table.Entry(c).Baseline, ShouldEqual, b)
			}
		})

		Convey("Then every question ends with a question mark", func() {
			for _, e := range table.Entries {
				So(len(e.Questions), ShouldBeGreaterThanOrEqualTo, 5)
				for _, q := range e.Questions {
					So(strings.HasSuffix(q, "?"), ShouldBeTrue)
				}
			}
		})

		Convey("Then unknown categories fall back to generic", func() {
			So(table.Entry("astronaut").Category, ShouldEqual, model.CategoryGeneric)
			_, ok := table.Lookup("astronaut")
			So(ok, ShouldBeFalse)
		})

		Convey("Then the classified view excludes generic", func() {
			for _, e := range table.Classified() {
				So(e.Category, ShouldNotEqual, model.CategoryGeneric)
			}
		})
	})
}

func TestNew(t *testing.T) {
	generic := catalog.Entry{
		Category: model.CategoryGeneric, Baseline: 6,
		Questions: []string{"Why {field}?"}, Mistakes: []string{"m"}, Tips: []string{"t"},
	}
	data := catalog.Entry{
		Category: model.CategoryData, Keywords: []string{" Data "}, Baseline: 7,
		Questions: []string{"What is SQL?"}, Mistakes: []string{"m"}, Tips: []string{"t"},
	}

	Convey("Given table entries", t, func() {
		Convey("When the entries are valid", func() {
			table, err := catalog.New([]catalog.Entry{data, generic}, catalog.DefaultVocabulary())
			So(err, ShouldBeNil)

			Convey("Then keywords are normalized", func() {
				e, ok := table.Lookup(model.CategoryData)
				So(ok, ShouldBeTrue)
				So(e.Keywords, ShouldResemble, []string{"data"})
			})
		})

		Convey("When generic is missing", func() {
			_, err := catalog.New([]catalog.Entry{data}, catalog.Vocabulary{})
			So(errors.Is(err, catalog.ErrInvalidCatalog), ShouldBeTrue)
		})

		Convey("When a category repeats", func() {
			_, err := catalog.New([]catalog.Entry{data, data, generic}, catalog.Vocabulary{})
			So(errors.Is(err, catalog.ErrInvalidCatalog), ShouldBeTrue)
		})

		Convey("When a question lacks a question mark", func() {
			bad := data
			bad.Questions = []string{"Tell me about SQL."}
			_, err := catalog.New([]catalog.Entry{bad, generic}, catalog.Vocabulary{})
			So(errors.Is(err, catalog.ErrInvalidCatalog), ShouldBeTrue)
		})

		Convey("When a classified category has no keywords", func() {
			bad := data
			bad.Keywords = []string{"  "}
			_, err := catalog.New([]catalog.Entry{bad, generic}, catalog.Vocabulary{})
			So(errors.Is(err, catalog.ErrInvalidCatalog), ShouldBeTrue)
		})

		Convey("When generic declares keywords", func() {
			bad := generic
			bad.Keywords = []string{"anything"}
			_, err := catalog.New([]catalog.Entry{data, bad}, catalog.Vocabulary{})
			So(errors.Is(err, catalog.ErrInvalidCatalog), ShouldBeTrue)
		})

		Convey("When a baseline is out of range", func() {
			bad := data
			bad.Baseline = 11
			_, err := catalog.New([]catalog.Entry{bad, generic}, catalog.Vocabulary{})
			So(errors.Is(err, catalog.ErrInvalidCatalog), ShouldBeTrue)
		})

		Convey("When the category is unknown", func() {
			bad := data
			bad.Category = "astronaut"
			_, err := catalog.New([]catalog.Entry{bad, generic}, catalog.Vocabulary{})
			So(errors.Is(err, catalog.ErrInvalidCatalog), ShouldBeTrue)
		})
	})
}

const overrideYAML = `
categories:
  - category: design
    keywords: [figma, "UX"]
    baseline: 6
    questions: ["What is your favourite design tool?"]
    mistakes: ["No portfolio walkthrough"]
    tips: ["Bring a portfolio"]
  - category: generic
    baseline: 5
    questions: ["Why {field}?"]
    mistakes: ["Vague answer"]
    tips: ["Be specific"]
vocabulary:
  filler: ["erm"]
`

func TestLoad(t *testing.T) {
	Convey("Given a catalog file", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "catalog.yaml")
		So(os.WriteFile(path, []byte(overrideYAML), 0o600), ShouldBeNil)

		Convey("When it is loaded", func() {
			table, err := catalog.Load(path)
			So(err, ShouldBeNil)

			Convey("Then entries come from the file", func() {
				So(len(table.Entries), ShouldEqual, 2)
				So(table.Entry(model.CategoryDesign).Keywords, ShouldResemble, []string{"figma", "ux"})
				So(table.Generic().Baseline, ShouldEqual, 5)
			})

			Convey("Then vocabulary gaps keep defaults", func() {
				So(table.Vocabulary.Filler, ShouldResemble, []string{"erm"})
				So(table.Vocabulary.Technical, ShouldResemble, catalog.DefaultVocabulary().Technical)
			})
		})

		Convey("When the path does not exist", func() {
			_, err := catalog.Load(filepath.Join(dir, "missing.yaml"))
			So(errors.Is(err, catalog.ErrLoadCatalog), ShouldBeTrue)
		})

		Convey("When the file is invalid", func() {
			bad := filepath.Join(dir, "bad.yaml")
			So(os.WriteFile(bad, []byte("categories:\n  - category: data\n    baseline: 5\n"), 0o600), ShouldBeNil)
			_, err := catalog.Load(bad)
			So(errors.Is(err, catalog.ErrInvalidCatalog), ShouldBeTrue)
		})

		Convey("When no path is configured", func() {
			table, err := catalog.LoadOrDefault("")
			So(err, ShouldBeNil)
			So(len(table.Entries), ShouldEqual, len(model.Categories))
		})
	})
}
